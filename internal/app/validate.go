package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldIssue is one failed rule on one payload field.
type FieldIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload does not satisfy its schema.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrInvalidPayload marks a body that is not a JSON object at all.
var ErrInvalidPayload = errors.New("invalid request data")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type defaulter interface{ ApplyDefaults() }

// prepare applies kind defaults and validates f in place.
func prepare[F any](f *F) error {
	if d, ok := any(f).(defaulter); ok {
		d.ApplyDefaults()
	}
	return check(f)
}

func check[F any](f *F) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Issues = append(out.Issues, FieldIssue{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: issueMessage(fe),
		})
	}
	return out
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// decodeFields decodes a JSON object into F, ignoring unknown keys. Type
// mismatches become validation issues; anything else is ErrInvalidPayload.
func decodeFields[F any](body []byte) (F, error) {
	var f F
	if err := json.Unmarshal(body, &f); err != nil {
		return f, typeError(err)
	}
	clearNullJSON(reflect.ValueOf(&f).Elem())
	return f, nil
}

// clearNullJSON turns a decoded JSON null held in a json.RawMessage field
// back into a nil slice so it is stored as SQL NULL and compares equal.
func clearNullJSON(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if fv.Type() == rawMessageType && fv.CanSet() && string(fv.Bytes()) == "null" {
			fv.SetBytes(nil)
		}
	}
}

func typeError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &ValidationError{Issues: []FieldIssue{{
			Field:   ute.Field,
			Rule:    "type",
			Message: fmt.Sprintf("expected %s, got %s", ute.Type, ute.Value),
		}}}
	}
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}
