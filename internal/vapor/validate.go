package vapor

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError reports a payload rejected before any request was sent.
type ValidationError struct {
	Payload string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Payload, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Fields returns the names of the fields that failed validation.
func (e *ValidationError) Fields() []string {
	errs, ok := e.Err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func check(name string, payload any) error {
	if err := validate.Struct(payload); err != nil {
		return &ValidationError{Payload: name, Err: err}
	}
	return nil
}
