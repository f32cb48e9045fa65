package entity

import (
	"strings"
	"time"
)

// Role permiso del usuario dentro de su empresa.
type Role string

const (
	RoleOwner      Role = "owner"      // datos de la empresa, borrado de documentos
	RoleAccountant Role = "accountant" // estados de factura, catálogos
	RoleSeller     Role = "seller"
)

// Valid indica si el rol es conocido.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleAccountant || r == RoleSeller
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre para mostrar y para el campo "съставил" de los documentos.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
