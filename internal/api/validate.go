package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/musemate/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"eventtype":    func(s string) bool { return model.EventType(s).Valid() },
		"maintenance":  func(s string) bool { return model.MaintenanceStatus(s).Valid() },
		"merchstatus":  func(s string) bool { return model.MerchStatus(s).Valid() },
		"rentalstatus": func(s string) bool { return model.RentalStatus(s).Valid() },
		"slot":         model.ValidSlot,
	}
	for tag, valid := range enums {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}
