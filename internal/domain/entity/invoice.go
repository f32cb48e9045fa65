package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura (filtro del listado).
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus indica si s es un estado conocido.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice cabecera de una factura (фактура).
type Invoice struct {
	ID            string
	CompanyID     string
	ClientID      string // vacío si el comprador se cargó a mano
	SaleID        string // venta de origen, si la hubo
	Number        string // 10 dígitos, único por empresa
	Date          time.Time
	DueDate       time.Time
	PaymentMethod string // Cash, Bank
	DealLocation  string
	Author        string // съставил
	Currency      string
	Seller        Party
	Buyer         Party
	VATRate       decimal.Decimal
	Subtotal      decimal.Decimal
	VATTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        string
	Digest        string // SHA-256 del XML canónico (C14N)
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
