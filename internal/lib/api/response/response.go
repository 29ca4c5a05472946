package response

import (
	"fmt"
	"net/http"
	"strings"

	"session_auth/internal/lib/apperr"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func OK() Response {
	return Response{
		Success: true,
	}
}

func OKWithMessage(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		field := strings.ToLower(err.Field())

		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", field))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", field))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at least %s characters", field, err.Param()))
		case "numeric", "len":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid code", field))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", field))
		}
	}

	return Response{
		Success: false,
		Message: "Invalid request",
		Errors:  errMsgs,
	}
}

// RenderError is the single place where errors returned by the service layer
// become HTTP responses.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	kind, msg := apperr.From(err)

	render.Status(r, kind.Status())
	render.JSON(w, r, Error(msg))
}
