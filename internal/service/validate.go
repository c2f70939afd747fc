package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误字段名使用 json 名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fromValidator(err)
	}
	return nil
}

// page 把页码/每页数量规范化为 offset/limit
func page(p, size, def, max int) (offset, limit int) {
	if p < 1 {
		p = 1
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return (p - 1) * size, size
}
