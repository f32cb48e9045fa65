package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount facturas por estado.
type StatusCount struct {
	Status string
	Count  int
	Total  decimal.Decimal
}

// MonthlyRevenue facturación de un mes (facturas emitidas y pagadas).
type MonthlyRevenue struct {
	Month   time.Time
	Revenue decimal.Decimal
	VAT     decimal.Decimal
}

// TopClient cliente con mayor facturación en el período.
type TopClient struct {
	ClientID     string
	Name         string
	InvoiceCount int
	Revenue      decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el tablero.
type DashboardRepository interface {
	InvoicesByStatus(ctx context.Context, companyID string, from, to time.Time) ([]StatusCount, error)
	MonthlyRevenue(ctx context.Context, companyID string, from, to time.Time) ([]MonthlyRevenue, error)
	TopClients(ctx context.Context, companyID string, from, to time.Time, limit int) ([]TopClient, error)
	SalesTotal(ctx context.Context, companyID string, from, to time.Time) (count int, total decimal.Decimal, err error)
}
