package handlers

import (
	"sync"

	"restaurant-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the domain tags used in request bindings to gin's
// validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return models.PaymentMethod(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
			return models.StaffRole(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("kitchen_status", func(fl validator.FieldLevel) bool {
			return models.KitchenStatus(fl.Field().String()).Valid()
		})
	})
}
