package handlers

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorDetail turns a gin binding failure into a client-facing
// detail string, listing each failed field when the cause is a
// validation error.
func bindingErrorDetail(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("field '%s' is required", fe.Field()))
		case "email":
			details = append(details, fmt.Sprintf("field '%s' must be a valid email address", fe.Field()))
		default:
			details = append(details, fmt.Sprintf("field '%s' failed validation '%s'", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(details, "; ")
}
