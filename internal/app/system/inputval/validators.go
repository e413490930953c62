package inputval

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// allowedAuthMethods lists the supported authentication providers in
// the order they are presented to clients.
var allowedAuthMethods = []string{"internal", "google"}

// IsValidAuthMethod reports whether method names a supported
// authentication provider. Case-insensitive, whitespace tolerated.
func IsValidAuthMethod(method string) bool {
	m := strings.ToLower(strings.TrimSpace(method))
	for _, allowed := range allowedAuthMethods {
		if m == allowed {
			return true
		}
	}
	return false
}

// AllowedAuthMethodsList returns the supported auth methods.
func AllowedAuthMethodsList() []string {
	out := make([]string, len(allowedAuthMethods))
	copy(out, allowedAuthMethods)
	return out
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// FieldError is one validation failure with a human-readable message.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the validation failures for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed validation.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" if validation passed.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every error message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use the label tag for error messages so clients see
	// "Full name is required." rather than a Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	_ = v.RegisterValidation("authmethod", func(fl validator.FieldLevel) bool {
		return IsValidAuthMethod(fl.Field().String())
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})
	return v
}

// Validate runs struct-tag validation on v and returns the collected
// field errors in declaration order.
func Validate(v any) *Result {
	err := validate.Struct(v)
	if err == nil {
		return &Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Result{Errors: []FieldError{{Message: "Invalid input."}}}
	}

	res := &Result{}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "min":
		return label + " must be at least " + fe.Param() + " characters."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	case "email":
		return "A valid email address is required."
	case "authmethod":
		return label + " must be one of: " + strings.Join(allowedAuthMethods, ", ") + "."
	case "httpurl":
		return label + " must be an http or https URL."
	case "objectid":
		return label + " must be a valid id."
	default:
		return label + " is invalid."
	}
}
