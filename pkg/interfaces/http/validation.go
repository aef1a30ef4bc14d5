package http

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once

// InitValidator configures gin's validator to report JSON field names and
// registers the dispatch-specific tags. Safe to call more than once.
func InitValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("medicine", validateMedicine)
	})
}

// validateMedicine rejects blank medicine names
func validateMedicine(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
