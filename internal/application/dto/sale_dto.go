package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleInput body para POST /api/sales. Con create_invoice también se emite la factura.
type SaleInput struct {
	ClientID              string              `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Buyer                 PartyInput          `json:"buyer"`
	Items                 []DocumentItemInput `json:"items" validate:"required,min=1,dive"`
	GlobalDiscountPercent decimal.Decimal     `json:"discount" validate:"gte=0,lte=100"`
	Date                  string              `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Author                string              `json:"author,omitempty" validate:"omitempty,max=200"`
	PaymentMethod         string              `json:"payment_method,omitempty" validate:"omitempty,oneof=Cash Bank"`
	CreateInvoice         bool                `json:"create_invoice"`
}

// SaleListRequest query de GET /api/sales.
type SaleListRequest struct {
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	Search   string `query:"search"`
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
}

// SaleResponse venta con detalle.
type SaleResponse struct {
	ID                    string                 `json:"id"`
	CompanyID             string                 `json:"company_id"`
	ClientID              string                 `json:"client_id,omitempty"`
	Number                string                 `json:"number"`
	Date                  string                 `json:"date"`
	Buyer                 PartyResponse          `json:"buyer"`
	Author                string                 `json:"author"`
	PaymentMethod         string                 `json:"payment_method"`
	GlobalDiscountPercent decimal.Decimal        `json:"discount"`
	VATRate               decimal.Decimal        `json:"vat_rate"`
	Totals                TotalsResponse         `json:"totals"`
	InvoiceID             string                 `json:"invoice_id,omitempty"`
	Items                 []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
