package observability

import (
	"context"

	"webhookhub/internal/application/dto"
	portsout "webhookhub/internal/application/ports/out"
)

type MultiRecorder []portsout.DispatchOutcomeRecorder

var _ portsout.DispatchOutcomeRecorder = MultiRecorder(nil)

func NewMultiRecorder(recorders ...portsout.DispatchOutcomeRecorder) MultiRecorder {
	out := make(MultiRecorder, 0, len(recorders))
	for _, recorder := range recorders {
		if recorder != nil {
			out = append(out, recorder)
		}
	}
	return out
}

func (m MultiRecorder) RecordDispatch(ctx context.Context, report dto.DispatchReport) {
	for _, recorder := range m {
		recorder.RecordDispatch(ctx, report)
	}
}
