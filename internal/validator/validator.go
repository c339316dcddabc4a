// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("money", validateMoney)
	}
}

// validateMoney accepts non-negative amounts with at most two decimal
// places, the precision the ledger arithmetic is defined over.
func validateMoney(fl validator.FieldLevel) bool {
	amount := fl.Field().Float()
	if amount < 0 {
		return false
	}
	cents := amount * 100
	return math.Abs(cents-math.Round(cents)) < 1e-9
}
