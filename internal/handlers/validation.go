package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	pinPattern    = regexp.MustCompile(`^[0-9]{4}$`)
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
)

// RegisterValidators installs the custom binding validators the DTOs rely on:
// "pin" (exactly four digits) and "amount" (non-negative dollar amount with
// at most two decimal places). These mirror the format checks the interactive
// prompt layer runs before calling into the ledger.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return amountPattern.MatchString(fl.Field().String())
	})
}
