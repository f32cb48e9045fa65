package wizard

import (
	"strings"

	"github.com/jhoicas/fakturi-api/internal/domain/draft"
)

// ValidParty nombre, ЕИК, МОЛ y dirección obligatorios.
func ValidParty(p draft.Party) bool {
	return notBlank(p.Name, p.TaxID, p.ContactPerson, p.Address)
}

// ValidArticles cada fila con descripción, cantidad > 0 y precio > 0. El descuento puede ser 0.
func ValidArticles(items []draft.LineItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" || !it.Quantity.IsPositive() || !it.UnitPrice.IsPositive() {
			return false
		}
	}
	return true
}

// ValidDetails número, fecha, forma de pago, vencimiento, lugar y autor obligatorios.
func ValidDetails(d draft.Details) bool {
	return notBlank(d.DocumentNumber, d.DocumentDate, d.PaymentMethod, d.DueDate, d.DealLocation, d.Author)
}

func notBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
