package validate

import (
	"github.com/go-playground/validator/v10"

	"go-pdx/internal/common/apperr"
)

var v = validator.New()

// Struct validates request payloads against their `validate` tags and
// converts failures into a validation-kind error for the HTTP layer.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
