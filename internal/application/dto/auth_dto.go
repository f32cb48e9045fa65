package dto

import "time"

// RegisterPersonalData primer paso del registro (POST /api/auth/register/check).
type RegisterPersonalData struct {
	FirstName            string `json:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// RegisterCompanyData segundo paso: datos de la empresa.
type RegisterCompanyData struct {
	Name        string `json:"name" validate:"required,max=200"`
	TaxID       string `json:"eik" validate:"required,eik"`
	VATNumber   string `json:"vat_number,omitempty" validate:"omitempty,max=15"`
	Address     string `json:"address" validate:"required,max=300"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	BankName    string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	BankAccount string `json:"bank_account,omitempty" validate:"omitempty,max=34"`
	MOL         string `json:"mol" validate:"required,max=200"`
}

// RegisterRequest body de POST /api/auth/register: usuario y empresa en una sola llamada.
type RegisterRequest struct {
	FirstName            string              `json:"first_name" validate:"required,max=100"`
	LastName             string              `json:"last_name" validate:"required,max=100"`
	Email                string              `json:"email" validate:"required,email"`
	Password             string              `json:"password" validate:"required,min=8"`
	PasswordConfirmation string              `json:"password_confirmation" validate:"required,eqfield=Password"`
	Company              RegisterCompanyData `json:"company"`
}

// Personal datos del primer paso.
func (r RegisterRequest) Personal() RegisterPersonalData {
	return RegisterPersonalData{
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MeResponse GET /api/user: usuario y empresa en sesión.
type MeResponse struct {
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
