package entity

import "time"

// Company representa la empresa emisora (tenant). Sus datos prellenan al proveedor de cada documento.
type Company struct {
	ID            string
	Name          string
	TaxID         string // ЕИК (Булстат)
	VATNumber     string // ЗДДС, vacío si no está registrada por ДДС
	ContactPerson string // МОЛ
	Address       string
	Phone         string
	Email         string
	BankName      string
	BankAccount   string // IBAN
	Status        string // active, suspended
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Estados de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// AsParty datos de la empresa como parte de un documento.
func (c *Company) AsParty() Party {
	return Party{
		Name:          c.Name,
		TaxID:         c.TaxID,
		VATNumber:     c.VATNumber,
		ContactPerson: c.ContactPerson,
		Address:       c.Address,
		BankAccount:   c.BankAccount,
	}
}
