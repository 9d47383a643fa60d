package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// RegisterCustomValidations installs the enum validations the binding tags in
// this package refer to. Call once at startup, before routes are served.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("invoicestatus", func(fl validator.FieldLevel) bool {
		return domain.InvoiceStatus(fl.Field().String()).IsValid()
	})
}
