package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ErrMalformedRequest is returned when the body cannot be decoded
var ErrMalformedRequest = shared.NewDomainError(shared.CodeInvalidInput, "Неверный формат запроса")

// SetupValidator makes validation errors use the json (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// BindError converts a gin binding failure into the error rendered to the
// client. A missing required field or an empty body is a missing argument,
// a malformed URL is reported on its own and other rule violations are
// reported per field.
func BindError(err error) error {
	if errors.Is(err, io.EOF) {
		return shared.ErrMissingArguments
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return shared.ErrRequestTooLarge
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		verr := &shared.ValidationError{}
		invalidURL := false
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				return shared.ErrMissingArguments
			case "url", "http_url":
				invalidURL = true
			}
			verr.Add(fe.Field(), getValidationMessage(fe))
		}
		if invalidURL {
			return shared.ErrInvalidURL
		}
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return shared.NewValidationError(typeErr.Field, "Недопустимое значение.")
	}

	return ErrMalformedRequest
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return "Введите правильный адрес электронной почты."
	case "oneof":
		return fmt.Sprintf("Значения нет среди допустимых вариантов: %s.", e.Param())
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Убедитесь, что это значение содержит не менее %s символов.", e.Param())
		}
		return fmt.Sprintf("Убедитесь, что это значение больше либо равно %s.", e.Param())
	case "max", "lte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", e.Param())
		}
		return fmt.Sprintf("Убедитесь, что это значение меньше либо равно %s.", e.Param())
	case "url", "http_url":
		return shared.ErrInvalidURL.Message
	case "numeric":
		return "Введите целое число."
	default:
		return "Недопустимое значение."
	}
}
