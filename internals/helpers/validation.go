package helper

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Validate reports field errors under their json/query names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// FieldErrors flattens validator output into field -> failed rules.
// ok is false when err is not a validation failure.
func FieldErrors(err error) (map[string][]string, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = append(out[fe.Field()], rule)
	}
	return out, true
}

// ValidationError carries field failures to the error handler, which renders
// them as a 422.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// ValidateStruct runs Validate and converts failures into *ValidationError.
func ValidateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	if fields, ok := FieldErrors(err); ok {
		return &ValidationError{Fields: fields}
	}
	return errors.Wrap(err, "validate")
}
