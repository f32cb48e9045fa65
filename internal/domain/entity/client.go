package entity

import "time"

// Client representa un cliente de la empresa (комитент / купувач).
type Client struct {
	ID            string
	CompanyID     string
	Name          string
	TaxID         string // ЕИК o ЕГН
	VATNumber     string
	ContactPerson string // МОЛ
	Address       string
	Email         string
	Phone         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AsParty datos del cliente como comprador de un documento.
func (c *Client) AsParty() Party {
	return Party{
		Name:          c.Name,
		TaxID:         c.TaxID,
		VATNumber:     c.VATNumber,
		ContactPerson: c.ContactPerson,
		Address:       c.Address,
	}
}

// Party copia de los datos de una parte guardada junto al documento.
// El documento no cambia si luego se edita el cliente o la empresa.
type Party struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	VATNumber     string `json:"vat_number,omitempty"`
	ContactPerson string `json:"contact_person"`
	Address       string `json:"address"`
	BankAccount   string `json:"bank_account,omitempty"`
}
