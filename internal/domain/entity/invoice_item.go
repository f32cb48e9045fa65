package entity

import "github.com/shopspring/decimal"

// InvoiceItem una línea de factura o de venta. Position conserva el orden de captura.
type InvoiceItem struct {
	ID              string
	DocumentID      string
	Position        int
	ArticleID       string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
}
