package users

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/userhub/userhub/internal/shared"
)

var fieldMessages = map[string]string{
	"name.required":     "Name is required",
	"email.required":    "Email is required",
	"email.email":       "Please fill a valid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters.",
}

var titleCase = cases.Title(language.English)

// errorMessage turns persistence and validation failures into the message
// shown to API clients.
func errorMessage(err error) string {
	if errors.Is(err, shared.ErrDuplicateEmail) {
		return uniqueMessage("email")
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		return titleCase.String(fe.Field()) + " is invalid"
	}
	return "Something went wrong"
}

func uniqueMessage(field string) string {
	return titleCase.String(field) + " already exists"
}

func badRequest(err error) error {
	return &shared.Error{Status: http.StatusBadRequest, Message: errorMessage(err), Err: err}
}
