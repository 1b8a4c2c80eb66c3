package controllers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"reflect"
	"strings"

	validatorengine "github.com/go-playground/validator/v10"

	apperrors "webhookhub/internal/shared_kernel/errors"
)

type payloadValidator struct {
	engine *validatorengine.Validate
}

func newPayloadValidator() *payloadValidator {
	engine := validatorengine.New()
	engine.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &payloadValidator{engine: engine}
}

// Validate reports the first failing field in the error details.
func (v *payloadValidator) Validate(payload any) *apperrors.AppError {
	err := v.engine.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrs validatorengine.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return apperrors.NewValidation(
			"invalid_request",
			"request body is invalid",
			map[string]any{"error": err.Error()},
		)
	}

	first := validationErrs[0]
	return apperrors.NewValidation(
		"invalid_request",
		validationMessage(first),
		map[string]any{"field": first.Field(), "rule": first.Tag()},
	)
}

func validationMessage(fieldErr validatorengine.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "gt":
		return fieldErr.Field() + " must be greater than " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}

// decodeJSONBody decodes exactly one JSON object into dst. Properties dst
// does not declare are ignored so producers can send richer payloads.
func decodeJSONBody(body io.Reader, dst any) *apperrors.AppError {
	if body == nil {
		return apperrors.NewValidation("invalid_request", "request body is required", nil)
	}

	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return apperrors.NewValidation("invalid_request", "request body is required", nil)
		}
		return apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}
	return nil
}
