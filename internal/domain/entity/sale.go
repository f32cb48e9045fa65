package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale una venta (продажба). Lleva descuento global sobre subtotal + ДДС.
type Sale struct {
	ID                    string
	CompanyID             string
	ClientID              string
	Number                string
	Date                  time.Time
	Buyer                 Party
	Author                string
	PaymentMethod         string // Cash, Bank
	GlobalDiscountPercent decimal.Decimal
	VATRate               decimal.Decimal
	Subtotal              decimal.Decimal
	VATTotal              decimal.Decimal
	GrandTotal            decimal.Decimal
	InvoiceID             string // factura emitida desde la venta
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
