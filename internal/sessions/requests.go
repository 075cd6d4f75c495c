package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IntakeRequest starts the workflow. Credential may be omitted after a
// restart that kept the previous credential.
type IntakeRequest struct {
	Credential  string `json:"credential" validate:"max=1024"`
	Description string `json:"description" validate:"required,max=8000"`
}

// FeedbackRequest asks for the current stage to be regenerated.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=8000"`
}

// Closed is returned when a session ends.
type Closed struct {
	Message string `json:"message"`
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decode[T any](r *http.Request, v *validator.Validate) (T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := v.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %s", ErrInvalidRequest, describe(err))
	}
	return req, nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fe.Field()+" exceeds "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(msgs, "; ")
}
