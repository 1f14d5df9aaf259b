package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oakfield/care-api/internal/model"
)

// RegisterValidators installs the custom binding validators used by
// the request structs.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return model.ValidPriority(fl.Field().String())
	})
}
