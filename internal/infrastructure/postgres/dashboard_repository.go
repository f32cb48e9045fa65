package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero. Rangos [from, to] inclusivos por fecha.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// InvoicesByStatus cantidad e importe de facturas por estado.
func (r *DashboardRepo) InvoicesByStatus(ctx context.Context, companyID string, from, to time.Time) ([]repository.StatusCount, error) {
	const query = `
	SELECT status, COUNT(*), COALESCE(SUM(grand_total), 0)
	FROM invoices
	WHERE company_id = $1 AND date BETWEEN $2 AND $3
	GROUP BY status
	ORDER BY status`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard.InvoicesByStatus: %w", err)
	}
	defer rows.Close()

	var out []repository.StatusCount
	for rows.Next() {
		var s repository.StatusCount
		if err := rows.Scan(&s.Status, &s.Count, &s.Total); err != nil {
			return nil, fmt.Errorf("dashboard.InvoicesByStatus scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MonthlyRevenue base imponible y ДДС por mes de las facturas emitidas y pagadas.
func (r *DashboardRepo) MonthlyRevenue(ctx context.Context, companyID string, from, to time.Time) ([]repository.MonthlyRevenue, error) {
	const query = `
	SELECT date_trunc('month', date)::DATE AS month,
	       COALESCE(SUM(subtotal), 0),
	       COALESCE(SUM(vat_total), 0)
	FROM invoices
	WHERE company_id = $1
	  AND date BETWEEN $2 AND $3
	  AND status IN ('issued', 'paid')
	GROUP BY month
	ORDER BY month`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard.MonthlyRevenue: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyRevenue
	for rows.Next() {
		var m repository.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue, &m.VAT); err != nil {
			return nil, fmt.Errorf("dashboard.MonthlyRevenue scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TopClients clientes con mayor facturación (sin anuladas) en el período.
func (r *DashboardRepo) TopClients(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.TopClient, error) {
	const query = `
	SELECT COALESCE(client_id::TEXT, ''),
	       MAX(buyer->>'name'),
	       COUNT(*),
	       COALESCE(SUM(grand_total), 0) AS revenue
	FROM invoices
	WHERE company_id = $1
	  AND date BETWEEN $2 AND $3
	  AND status <> 'cancelled'
	  AND client_id IS NOT NULL
	GROUP BY client_id
	ORDER BY revenue DESC
	LIMIT $4`
	rows, err := r.q.Query(ctx, query, companyID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.TopClients: %w", err)
	}
	defer rows.Close()

	var out []repository.TopClient
	for rows.Next() {
		var c repository.TopClient
		if err := rows.Scan(&c.ClientID, &c.Name, &c.InvoiceCount, &c.Revenue); err != nil {
			return nil, fmt.Errorf("dashboard.TopClients scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SalesTotal número e importe de las ventas del período.
func (r *DashboardRepo) SalesTotal(ctx context.Context, companyID string, from, to time.Time) (int, decimal.Decimal, error) {
	var (
		n     int
		total decimal.Decimal
	)
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM sales WHERE company_id = $1 AND date BETWEEN $2 AND $3`,
		companyID, from, to).Scan(&n, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("dashboard.SalesTotal: %w", err)
	}
	return n, total, nil
}
