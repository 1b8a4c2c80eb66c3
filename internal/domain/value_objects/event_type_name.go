package valueobjects

import (
	"strings"

	apperrors "webhookhub/internal/shared_kernel/errors"
)

// EventTypeName is an opaque event identifier such as "OrderPlaced".
// Comparison is exact and case-sensitive; surrounding whitespace is part of
// the name.
type EventTypeName string

func NewEventTypeName(raw string) (EventTypeName, *apperrors.AppError) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"eventType is required",
			map[string]any{"field": "eventType"},
		)
	}

	return EventTypeName(raw), nil
}

func (n EventTypeName) String() string {
	return string(n)
}
