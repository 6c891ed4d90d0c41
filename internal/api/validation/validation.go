// Package validation wires custom rules into gin's validator.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register installs the custom rules on gin's default validator. Safe to call more than once.
func Register() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected validator engine")
			return
		}
		v.RegisterTagNameFunc(jsonName)
		err = v.RegisterValidation("notblank", notBlank)
	})
	return err
}

// notblank：去掉空白后不能为空
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if s, ok := f.Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return !f.IsZero()
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		if form := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]; form != "" {
			return form
		}
		return fld.Name
	}
	return name
}

// FieldError 取第一个失败字段及可读消息
func FieldError(err error) (field, message string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	fe := verrs[0]
	field = fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		message = field + " is required"
	case "min":
		message = field + " must be at least " + fe.Param()
	case "max":
		message = field + " must be at most " + fe.Param()
	case "email":
		message = field + " must be a valid email"
	case "oneof":
		message = field + " must be one of " + fe.Param()
	default:
		message = field + " is invalid"
	}
	return field, message, true
}
