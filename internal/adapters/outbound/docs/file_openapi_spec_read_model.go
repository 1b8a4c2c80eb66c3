package docs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	portsout "webhookhub/internal/application/ports/out"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type FileOpenAPISpecReadModel struct {
	path string
}

var _ portsout.OpenAPISpecReadModel = (*FileOpenAPISpecReadModel)(nil)

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{
		path: path,
	}
}

// Read returns the document with a content type derived from its extension.
func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, "", apperrors.NewInternal(
			"OPENAPI_FILE_READ_FAILED",
			"failed to read OpenAPI spec file",
			map[string]any{"path": r.path},
		)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, "", apperrors.NewInternal(
			"OPENAPI_FILE_EMPTY",
			"OpenAPI spec file is empty",
			map[string]any{"path": r.path},
		)
	}

	if strings.EqualFold(filepath.Ext(r.path), ".json") {
		return content, "application/json; charset=utf-8", nil
	}
	return content, "application/yaml; charset=utf-8", nil
}
