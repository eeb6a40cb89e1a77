package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New builds the request validator shared by the HTTP controllers. Violation
// messages report json tag names so clients see the fields they actually
// sent.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
