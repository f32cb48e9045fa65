package dto

import "time"

// ClientRequest body para POST /api/clients y PUT /api/clients/:id.
// Los nombres JSON son los del formulario: number = ЕИК, acc_person = МОЛ.
type ClientRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	TaxID         string `json:"number" validate:"required,eik"`
	VATNumber     string `json:"vat_number,omitempty" validate:"omitempty,max=15"`
	ContactPerson string `json:"acc_person" validate:"required,max=200"`
	Address       string `json:"address" validate:"required,max=300"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	Name          string    `json:"name"`
	TaxID         string    `json:"number"`
	VATNumber     string    `json:"vat_number,omitempty"`
	ContactPerson string    `json:"acc_person"`
	Address       string    `json:"address"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ClientListRequest query de GET /api/clients.
type ClientListRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Search string `query:"search"`
}
