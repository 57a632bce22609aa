package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies; every payload here is a few fields.
const maxBodyBytes = 1 << 16

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct. Unknown fields are
// rejected. An empty body is reported as io.EOF.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}

// DecodeAndValidate combines DecodeJSON and ValidateRequest and returns a
// client-safe message alongside the error.
func DecodeAndValidate(r *http.Request, v interface{}) (string, error) {
	if err := DecodeJSON(r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return "Request body required", err
		}
		return "Invalid request format", err
	}

	if err := ValidateRequest(v); err != nil {
		return ValidationMessage(err), err
	}
	return "", nil
}

// ValidationMessage turns validator errors into a message that names the first
// failing field without echoing its value.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), tagMessage(fe.Tag()))
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "lt", "lte", "max":
		return "too large"
	default:
		return "validation failed"
	}
}
