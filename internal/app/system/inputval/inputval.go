// Package inputval validates decoded request input with struct tags.
//
//	type geofenceInput struct {
//	    GeofenceName string `validate:"required,max=200" label:"Geofence name"`
//	}
//	if res := inputval.Validate(in); res.HasErrors() { ... res.First() ... }
package inputval

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule, with a message ready to show an operator.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their label tag so messages read naturally.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
	})
	return v
}

// Validate runs the validate tags on input (a struct or pointer to struct).
func Validate(input any) *Result {
	res := &Result{}
	err := instance().Struct(input)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
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
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "A valid email address is required."
	case "objectid":
		return label + " must be a valid id."
	case "httpurl":
		return label + " must be a valid http(s) URL."
	}
	return label + " is invalid."
}

// IsValidObjectID reports whether s (trimmed) is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
