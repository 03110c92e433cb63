package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages per field, or per field.tag when the tag needs its own text
var messages = map[string]string{
	"firstName":               "Please enter first name.",
	"lastName":                "Please enter last name.",
	"email":                   "Please enter an email id.",
	"email.email":             "Please enter a valid email id.",
	"password":                "Please enter password.",
	"confirmPassword":         "Please enter confirm password.",
	"confirmPassword.eqfield": "Password and confirm password does not match.",
	"termsAccepted":           "Please agree terms and condition.",
	"token":                   "Reset token is missing.",
	"mobile":                  "Please enter mobile number.",
	"mobile.numeric":          "Please enter a valid mobile number.",
	"gender.oneof":            "Please select male or female.",
	"title":                   "Please enter product title.",
	"price":                   "Please enter product price.",
	"description":             "Please enter product description.",
	"stock_quantity":          "Please enter product quantity.",
	"name":                    "Please enter name.",
	"mobileNumber":            "Please enter mobile number.",
	"address":                 "Please enter address.",
	"zipCode":                 "Please enter zip code.",
	"type.oneof":              "Please select Home, Office or Other.",
}

// validateInput runs the struct tags and reports the first failing field
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return invalid(fe.Field(), messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fe.Field() + " is invalid."
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
