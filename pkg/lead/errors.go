package lead

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeFieldNotString tags composition errors raised while stringifying
// an inbound field.
const TextCodeFieldNotString = "LEAD_FIELD_NOT_STRING"

func fieldError(field Field, value any, cause error) error {
	msg := fmt.Sprintf("input field '%s' must be convertible to a string (got %T)", field, value)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(TextCodeFieldNotString).
		WithMetadata(map[string]any{
			"field": string(field),
			"type":  fmt.Sprintf("%T", value),
		})
}
