package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs del mes en curso más la serie de los últimos 12 meses.
type DashboardSummaryDTO struct {
	Clients  int `json:"clients"`
	Articles int `json:"articles"`

	InvoicesByStatus []InvoiceStatusDTO `json:"invoices_by_status"`
	MonthlyRevenue   decimal.Decimal    `json:"monthly_revenue"` // emitidas + pagadas del mes, sin ДДС
	MonthlyVAT       decimal.Decimal    `json:"monthly_vat"`
	Outstanding      decimal.Decimal    `json:"outstanding"` // emitidas aún no pagadas

	SalesCount int             `json:"sales_count"`
	SalesTotal decimal.Decimal `json:"sales_total"`

	Revenue12M []MonthlyRevenueDTO `json:"revenue_12m"`
	TopClients []TopClientDTO      `json:"top_clients"`

	DateLabel string `json:"date_label"` // ej: "октомври 2026"
}

// InvoiceStatusDTO cantidad e importe por estado.
type InvoiceStatusDTO struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// MonthlyRevenueDTO un punto de la serie mensual.
type MonthlyRevenueDTO struct {
	Month   string          `json:"month"` // 2026-10
	Revenue decimal.Decimal `json:"revenue"`
	VAT     decimal.Decimal `json:"vat"`
}

// TopClientDTO cliente del ranking.
type TopClientDTO struct {
	ClientID     string          `json:"client_id"`
	Name         string          `json:"name"`
	InvoiceCount int             `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}
