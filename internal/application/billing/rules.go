package billing

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
)

// RegisterRules agrega al validador las reglas que cruzan secciones del documento.
func RegisterRules(v *validation.Validator) {
	v.RegisterStructRule(invoiceBankAccountRule, dto.InvoiceInput{})
}

// invoiceBankAccountRule con pago por banco el vendedor debe informar IBAN.
func invoiceBankAccountRule(sl validator.StructLevel) {
	in := sl.Current().Interface().(dto.InvoiceInput)
	if !strings.EqualFold(strings.TrimSpace(in.Details.PaymentMethod), draft.PaymentBank) {
		return
	}
	if strings.TrimSpace(in.Seller.BankAccount) == "" {
		sl.ReportError(in.Seller.BankAccount, "seller.bank_account", "BankAccount", "required_if", "Bank")
	}
}

// asDraftError traduce errores por campo de la API al identificador cerrado del borrador.
func asDraftError(err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return draft.NewValidationError(ve.First())
	}
	return err
}
