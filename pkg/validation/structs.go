package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the process-wide validator instance with FlowCanvas custom
// validations registered.
var Validate *validator.Validate

var nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func init() {
	Validate = validator.New()

	// Node ids appear in generated identifiers and store keys, so the
	// accepted alphabet is restricted up front.
	_ = Validate.RegisterValidation("node_id", func(fl validator.FieldLevel) bool {
		return nodeIDPattern.MatchString(fl.Field().String())
	})

	// Report field names by their JSON tag, matching the wire format.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct runs tag-based validation on a snapshot, template, or any
// other tagged struct.
func ValidateStruct(v any) error {
	return Validate.Struct(v)
}
