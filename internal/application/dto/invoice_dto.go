package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyInput parte de un documento. Los nombres JSON son los que reciben los errores por campo.
type PartyInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	TaxID         string `json:"tax_id" validate:"required,eik"`
	VATNumber     string `json:"vat_number,omitempty" validate:"omitempty,max=15"`
	ContactPerson string `json:"contact_person" validate:"required,max=200"`
	Address       string `json:"address" validate:"required,max=300"`
	BankAccount   string `json:"bank_account,omitempty" validate:"omitempty,max=34"`
}

// DocumentItemInput línea de factura o venta. El total no se recibe: se recalcula.
type DocumentItemInput struct {
	ArticleID       string          `json:"article_id,omitempty" validate:"omitempty,uuid"`
	Description     string          `json:"description" validate:"required,max=500"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"gt=0"`
	DiscountPercent decimal.Decimal `json:"discount"`
}

// DetailsInput datos adicionales de la factura.
type DetailsInput struct {
	DocumentNumber string `json:"document_number" validate:"required,numeric,max=10"`
	DocumentDate   string `json:"document_date" validate:"required,datetime=2006-01-02"`
	DueDate        string `json:"due_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod  string `json:"payment_method" validate:"required,oneof=Cash Bank"`
	DealLocation   string `json:"deal_location" validate:"required,max=200"`
	Author         string `json:"author" validate:"required,max=200"`
	Currency       string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// InvoiceInput body para POST /api/invoices y PUT /api/invoices/:id; también es la forma
// en que se valida un borrador al enviarlo.
type InvoiceInput struct {
	ClientID string              `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Seller   PartyInput          `json:"seller"`
	Buyer    PartyInput          `json:"buyer"`
	Items    []DocumentItemInput `json:"items" validate:"required,min=1,dive"`
	Details  DetailsInput        `json:"details"`
}

// InvoiceStatusRequest body para PUT /api/invoices/:id/status.
type InvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft issued paid cancelled"`
}

// InvoiceListRequest query de GET /api/invoices (búsqueda, cliente y estado).
type InvoiceListRequest struct {
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	Search   string `query:"search"`
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=draft issued paid cancelled"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DocumentItemResponse línea en la respuesta.
type DocumentItemResponse struct {
	ID              string          `json:"id"`
	Position        int             `json:"position"`
	ArticleID       string          `json:"article_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                 `json:"id"`
	CompanyID     string                 `json:"company_id"`
	ClientID      string                 `json:"client_id,omitempty"`
	SaleID        string                 `json:"sale_id,omitempty"`
	Number        string                 `json:"number"`
	Date          string                 `json:"date"`
	DueDate       string                 `json:"due_date"`
	PaymentMethod string                 `json:"payment_method"`
	DealLocation  string                 `json:"deal_location"`
	Author        string                 `json:"author"`
	Currency      string                 `json:"currency"`
	Seller        PartyResponse          `json:"seller"`
	Buyer         PartyResponse          `json:"buyer"`
	VATRate       decimal.Decimal        `json:"vat_rate"`
	Totals        TotalsResponse         `json:"totals"`
	Status        string                 `json:"status"`
	Digest        string                 `json:"digest,omitempty"`
	Items         []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
