package use_cases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// getOpenAPISpecUseCase keeps the first successfully read document; the file
// ships with the binary and does not change while the process runs. Failed
// reads are not cached.
type getOpenAPISpecUseCase struct {
	readModel portsout.OpenAPISpecReadModel

	mu     sync.Mutex
	cached *dto.OpenAPISpecOutput
}

func NewGetOpenAPISpecUseCase(readModel portsout.OpenAPISpecReadModel) portsin.GetOpenAPISpecUseCase {
	return &getOpenAPISpecUseCase{
		readModel: readModel,
	}
}

func (u *getOpenAPISpecUseCase) Execute(ctx context.Context, _ dto.GetOpenAPISpecQuery) (dto.OpenAPISpecOutput, *apperrors.AppError) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.cached != nil {
		return *u.cached, nil
	}

	if u.readModel == nil {
		return dto.OpenAPISpecOutput{}, apperrors.NewInternal(
			"openapi_read_model_missing",
			"openapi read model is required",
			nil,
		)
	}

	content, contentType, appErr := u.readModel.Read(ctx)
	if appErr != nil {
		return dto.OpenAPISpecOutput{}, appErr
	}

	sum := sha256.Sum256(content)
	output := dto.OpenAPISpecOutput{
		Content:     content,
		ContentType: contentType,
		ETag:        `"` + hex.EncodeToString(sum[:16]) + `"`,
	}
	u.cached = &output

	return output, nil
}
