package http

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// monetary inputs: max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// messageFor renders one tag failure as client-facing text.
var messageFor = map[string]func(param string) string{
	"required": func(string) string { return "is required" },
	"dec2":     func(string) string { return "must have at most 2 decimal places" },
	"oneof":    func(p string) string { return "must be one of: " + p },
	"datetime": func(p string) string { return "must be a date in " + p + " format" },
	"gte":      func(p string) string { return "must be greater than or equal to " + p },
	"lte":      func(p string) string { return "must be less than or equal to " + p },
}

// ToFieldErrors maps validator.ValidationErrors to the response shape.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		msg := e.Tag() + " validation failed"
		if f, known := messageFor[e.Tag()]; known {
			msg = f(e.Param())
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
