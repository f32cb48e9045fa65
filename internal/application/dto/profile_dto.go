package dto

import "time"

// UpdatePersonalRequest PUT /api/profile/personal.
type UpdatePersonalRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// UpdateCompanyRequest PUT /api/profile/company.
type UpdateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	MOL         string `json:"mol" validate:"required,max=200"`
	TaxID       string `json:"eik" validate:"required,eik"`
	VATNumber   string `json:"vat_number,omitempty" validate:"omitempty,max=15"`
	Address     string `json:"address" validate:"required,max=300"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	BankName    string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	BankAccount string `json:"bank_account,omitempty" validate:"omitempty,max=34"`
}

// ChangePasswordRequest PUT /api/profile/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"eik"`
	VATNumber   string    `json:"vat_number,omitempty"`
	MOL         string    `json:"mol"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	BankName    string    `json:"bank_name,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
