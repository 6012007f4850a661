package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// The returned value is the error payload to send, or nil.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) any {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return "request body is required"
		}
		return "invalid request body"
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fieldErrors(validationErrors)
		}
		return err.Error()
	}
	return nil
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	out := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		unit := ""
		if e.Kind() == reflect.String {
			unit = " characters"
		}
		switch e.Tag() {
		case "required":
			out[field] = "field is required"
		case "min":
			out[field] = "must be at least " + e.Param() + unit
		case "max":
			out[field] = "must be at most " + e.Param() + unit
		default:
			out[field] = "validation failed on " + e.Tag()
		}
	}
	return out
}
