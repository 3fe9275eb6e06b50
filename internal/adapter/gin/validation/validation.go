// Package validation checks JSON request bodies against ordered field schemas before handlers run.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	apperrors "user-crud-service/pkg/errors"
)

// ErrInvalidJSON is returned for bodies that do not parse as JSON
var ErrInvalidJSON = apperrors.NewValidationError("invalid JSON body")

// Field describes one string property of a request body
type Field struct {
	Name     string
	Required bool
	Email    bool
}

// Schema is an ordered list of fields. Validation stops at the first failing field.
type Schema []Field

// CreateUser requires every user field
var CreateUser = Schema{
	{Name: "firstName", Required: true},
	{Name: "lastName", Required: true},
	{Name: "email", Required: true, Email: true},
	{Name: "occupation", Required: true},
}

// UpdateUser accepts any subset of the user fields
var UpdateUser = Schema{
	{Name: "firstName"},
	{Name: "lastName"},
	{Name: "email", Email: true},
	{Name: "occupation"},
}

var validate = validator.New()

// Validate checks body against the schema and returns a validation error for the first violation.
// An empty body is treated as an empty object. A key given twice is checked by its last value.
func (s Schema) Validate(body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	if !gjson.ValidBytes(body) {
		return ErrInvalidJSON
	}
	obj := gjson.ParseBytes(body)
	if !obj.IsObject() {
		return apperrors.NewValidationError(`"value" must be of type object`)
	}

	// Later duplicates win, as they do when the body is decoded
	values := make(map[string]gjson.Result)
	obj.ForEach(func(key, value gjson.Result) bool {
		values[key.String()] = value
		return true
	})

	for _, f := range s {
		if msg := f.check(values[f.Name]); msg != "" {
			return apperrors.NewValidationError(fmt.Sprintf("%q %s", f.Name, msg))
		}
	}
	return nil
}

func (f Field) check(value gjson.Result) string {
	if !value.Exists() {
		if f.Required {
			return "is required"
		}
		return ""
	}
	if value.Type != gjson.String {
		return "must be a string"
	}

	tag := "required"
	if f.Email {
		tag += ",email"
	}

	err := validate.Var(value.String(), tag)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ""
	}

	switch fieldErrs[0].Tag() {
	case "required":
		return "is not allowed to be empty"
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}

// Body returns a middleware that rejects requests whose body violates the schema.
// Accepted bodies are cached on the context for ShouldBindBodyWithJSON.
func Body(s Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				_ = c.Error(apperrors.NewValidationError("unable to read request body"))
				c.Abort()
				return
			}
		}

		if err := s.Validate(body); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if len(bytes.TrimSpace(body)) == 0 {
			body = []byte("{}")
		}
		c.Set(gin.BodyBytesKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		c.Next()
	}
}
