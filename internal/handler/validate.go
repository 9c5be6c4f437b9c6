package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках поля называются так же, как в JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate разбирает JSON тело запроса в dst и проверяет теги validate
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			return domain.NewValidationError("publication_date", "date_yyyy_mm_dd")
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("body", "required")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return domain.NewValidationError(typeErr.Field, typeErr.Type.String())
			}
			return domain.NewValidationError("body", "json")
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			fields[fe.Field()] = rule
		}
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func errBlank(field string) error {
	return domain.NewValidationError(field, "required")
}
