package valueobjects

import (
	"strings"

	apperrors "webhookhub/internal/shared_kernel/errors"
)

// SubscriberURL is a delivery target. Only blankness is rejected here; a
// malformed address surfaces later as a failed delivery outcome.
type SubscriberURL string

func NewSubscriberURL(raw string) (SubscriberURL, *apperrors.AppError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"url is required",
			map[string]any{"field": "url"},
		)
	}

	return SubscriberURL(trimmed), nil
}

func (u SubscriberURL) String() string {
	return string(u)
}
