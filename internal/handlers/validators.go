package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerCustomValidations installs decimal-aware binding rules. The stock
// numeric comparisons (gt, gte) cannot see through decimal.Decimal, so
// amount fields carry these tags instead.
func registerCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	rules := map[string]validator.Func{
		// dpositive: a strictly positive monetary amount.
		"dpositive": func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && d.IsPositive()
		},
		// dgte0: a non-negative monetary amount, zero allowed.
		"dgte0": func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && !d.IsNegative()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}
