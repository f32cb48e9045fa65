package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int
	Offset int
}

// NewPage normaliza limit/offset recibidos por query.
func NewPage(limit, offset int) PageRequest {
	p := PageRequest{Limit: limit, Offset: offset}
	p.DefaultPage()
	return p
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Errors trae los mensajes por campo ({"company.eik": ["..."]}).
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// NumberText número tal como lo escribe el usuario. Acepta 3, "3", "3 бр" o "abc";
// la conversión (prefijo numérico, sin dígitos = 0) la hace el motor de totales.
type NumberText string

// UnmarshalJSON acepta número o cadena JSON.
func (n *NumberText) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = NumberText(str)
		return nil
	}
	*n = NumberText(s)
	return nil
}

// String texto crudo.
func (n NumberText) String() string { return string(n) }

// TotalsResponse importes redondeados a 2 decimales.
type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	VAT        decimal.Decimal `json:"vat"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// PartyResponse datos de una parte del documento.
type PartyResponse struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	VATNumber     string `json:"vat_number,omitempty"`
	ContactPerson string `json:"contact_person"`
	Address       string `json:"address"`
	BankAccount   string `json:"bank_account,omitempty"`
}
