package transport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskhive/backend/domain"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into an
// INVALID domain error listing the offending fields.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return domain.WrapError(domain.ErrCodeInvalid, "invalid fields: "+strings.Join(fields, ", "), err)
}
