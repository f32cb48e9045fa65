// Package analytics contiene el tablero de la empresa: facturación del mes, estados de las
// facturas, ventas y serie de los últimos 12 meses.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

const dashboardTopClients = 5 // clientes en el ranking del tablero

// DashboardUseCase genera el resumen del mes en curso.
//
// Fuente de datos: DashboardRepository (consultas read-only) más los contadores de
// clientes y artículos. El resultado se cachea por empresa y día.
type DashboardUseCase struct {
	dashRepo    repository.DashboardRepository
	clientRepo  repository.ClientRepository
	articleRepo repository.ArticleRepository
	cache       ports.Cache
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashRepo repository.DashboardRepository,
	clientRepo repository.ClientRepository,
	articleRepo repository.ArticleRepository,
	cache ports.Cache,
) *DashboardUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &DashboardUseCase{
		dashRepo:    dashRepo,
		clientRepo:  clientRepo,
		articleRepo: articleRepo,
		cache:       cache,
		now:         time.Now,
	}
}

// WithClock fija el reloj (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	key, err := uc.cache.Key(ctx, companyID, ports.CacheDashboard, "summary", now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	var out dto.DashboardSummaryDTO
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return uc.load(ctx, companyID, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *DashboardUseCase) load(ctx context.Context, companyID string, now time.Time) (*dto.DashboardSummaryDTO, error) {
	// ── Rangos de fecha ────────────────────────────────────────────────────────
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	yearStart := monthStart.AddDate(0, -11, 0)

	var (
		clients, articles int
		byStatus          []repository.StatusCount
		series            []repository.MonthlyRevenue
		top               []repository.TopClient
		salesCount        int
		salesTotal        decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.clientRepo.Count(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: clientes: %w", err)
		}
		clients = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.articleRepo.Count(gctx, companyID)
		if err != nil {
			return fmt.Errorf("dashboard: artículos: %w", err)
		}
		articles = n
		return nil
	})
	g.Go(func() error {
		rows, err := uc.dashRepo.InvoicesByStatus(gctx, companyID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: facturas por estado: %w", err)
		}
		byStatus = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.dashRepo.MonthlyRevenue(gctx, companyID, yearStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: serie mensual: %w", err)
		}
		series = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.dashRepo.TopClients(gctx, companyID, yearStart, monthEnd, dashboardTopClients)
		if err != nil {
			return fmt.Errorf("dashboard: top clientes: %w", err)
		}
		top = rows
		return nil
	})
	g.Go(func() error {
		n, total, err := uc.dashRepo.SalesTotal(gctx, companyID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas: %w", err)
		}
		salesCount, salesTotal = n, total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		Clients:          clients,
		Articles:         articles,
		InvoicesByStatus: make([]dto.InvoiceStatusDTO, 0, len(byStatus)),
		MonthlyRevenue:   decimal.Zero,
		MonthlyVAT:       decimal.Zero,
		Outstanding:      decimal.Zero,
		SalesCount:       salesCount,
		SalesTotal:       salesTotal.Round(2),
		Revenue12M:       fillMonths(series, yearStart, 12),
		TopClients:       make([]dto.TopClientDTO, 0, len(top)),
		DateLabel:        monthLabel(now),
	}
	for _, s := range byStatus {
		out.InvoicesByStatus = append(out.InvoicesByStatus, dto.InvoiceStatusDTO{
			Status: s.Status,
			Count:  s.Count,
			Total:  s.Total.Round(2),
		})
		if s.Status == entity.InvoiceStatusIssued {
			out.Outstanding = out.Outstanding.Add(s.Total)
		}
	}
	out.Outstanding = out.Outstanding.Round(2)
	// El mes en curso es el último punto de la serie.
	if last := out.Revenue12M[len(out.Revenue12M)-1]; last.Month == now.Format("2006-01") {
		out.MonthlyRevenue = last.Revenue
		out.MonthlyVAT = last.VAT
	}
	for _, c := range top {
		out.TopClients = append(out.TopClients, dto.TopClientDTO{
			ClientID:     c.ClientID,
			Name:         c.Name,
			InvoiceCount: c.InvoiceCount,
			Revenue:      c.Revenue.Round(2),
		})
	}
	return out, nil
}

// fillMonths devuelve n meses consecutivos desde start; los meses sin facturas van en cero.
func fillMonths(rows []repository.MonthlyRevenue, start time.Time, n int) []dto.MonthlyRevenueDTO {
	byMonth := make(map[string]repository.MonthlyRevenue, len(rows))
	for _, r := range rows {
		byMonth[r.Month.Format("2006-01")] = r
	}
	out := make([]dto.MonthlyRevenueDTO, 0, n)
	for i := 0; i < n; i++ {
		m := start.AddDate(0, i, 0).Format("2006-01")
		point := dto.MonthlyRevenueDTO{Month: m, Revenue: decimal.Zero, VAT: decimal.Zero}
		if r, ok := byMonth[m]; ok {
			point.Revenue = r.Revenue.Round(2)
			point.VAT = r.VAT.Round(2)
		}
		out = append(out, point)
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "октомври 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"януари", "февруари", "март", "април", "май", "юни",
		"юли", "август", "септември", "октомври", "ноември", "декември",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
