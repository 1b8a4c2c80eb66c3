package out

import (
	"context"

	"webhookhub/internal/application/dto"
)

// DispatchOutcomeRecorder receives every finished dispatch, including the
// per-subscriber outcomes that are not returned to the HTTP caller.
type DispatchOutcomeRecorder interface {
	RecordDispatch(ctx context.Context, report dto.DispatchReport)
}
