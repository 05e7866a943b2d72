// Package validation shape-checks inbound campground and review payloads
// before they reach the store. Checks are pure; nothing is persisted on the
// failure path.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name, not the Go struct field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of a payload check.
type Result struct {
	Errors []FieldError
}

// OK reports whether the payload passed every check.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Message aggregates all field messages into one comma-joined string.
func (r Result) Message() string {
	parts := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		parts = append(parts, fe.Message)
	}
	return strings.Join(parts, ",")
}

// CampgroundPayload is the accepted schema for campground create/update.
// Price is a pointer so an explicit 0 still satisfies required.
type CampgroundPayload struct {
	Title       string   `json:"title" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Image       string   `json:"image" validate:"required,url"`
	Description string   `json:"description" validate:"required"`
	Location    string   `json:"location" validate:"required"`
}

// ReviewPayload is the accepted schema for review create.
type ReviewPayload struct {
	Body   string `json:"body" validate:"required"`
	Rating *int   `json:"rating" validate:"required,min=1,max=5"`
}

// DecodeCampground reads and checks a campground payload. Unrecognized
// top-level keys are rejected.
func DecodeCampground(r io.Reader) (CampgroundPayload, Result) {
	var p CampgroundPayload
	if res, ok := decode(r, &p); !ok {
		return p, res
	}
	return p, check(p)
}

// DecodeReview reads and checks a review payload. Unrecognized top-level
// keys are rejected.
func DecodeReview(r io.Reader) (ReviewPayload, Result) {
	var p ReviewPayload
	if res, ok := decode(r, &p); !ok {
		return p, res
	}
	return p, check(p)
}

func decode(r io.Reader, dst any) (Result, bool) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return Result{Errors: []FieldError{{Field: "payload", Message: err.Error()}}}, false
	}
	return Result{}, true
}

func check(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Field: "payload", Message: err.Error()}}}
	}
	var res Result
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "gte", "min":
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%q must be less than or equal to %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%q must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
