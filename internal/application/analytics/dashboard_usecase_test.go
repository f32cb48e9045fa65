package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/analytics"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

type clientCounter struct {
	repository.ClientRepository
	n int
}

func (c clientCounter) Count(context.Context, string) (int, error) { return c.n, nil }

type articleCounter struct {
	repository.ArticleRepository
	n int
}

func (c articleCounter) Count(context.Context, string) (int, error) { return c.n, nil }

type fakeDash struct {
	salesErr error
}

func (fakeDash) InvoicesByStatus(context.Context, string, time.Time, time.Time) ([]repository.StatusCount, error) {
	return []repository.StatusCount{
		{Status: "issued", Count: 2, Total: decimal.RequireFromString("240.004")},
		{Status: "paid", Count: 1, Total: decimal.RequireFromString("120")},
	}, nil
}

func (fakeDash) MonthlyRevenue(context.Context, string, time.Time, time.Time) ([]repository.MonthlyRevenue, error) {
	return []repository.MonthlyRevenue{
		{Month: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(300), VAT: decimal.NewFromInt(60)},
		{Month: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(100), VAT: decimal.NewFromInt(20)},
	}, nil
}

func (fakeDash) TopClients(context.Context, string, time.Time, time.Time, int) ([]repository.TopClient, error) {
	return []repository.TopClient{{ClientID: "c1", Name: "Клиент ООД", InvoiceCount: 3, Revenue: decimal.NewFromInt(400)}}, nil
}

func (f fakeDash) SalesTotal(context.Context, string, time.Time, time.Time) (int, decimal.Decimal, error) {
	if f.salesErr != nil {
		return 0, decimal.Zero, f.salesErr
	}
	return 4, decimal.RequireFromString("97.2"), nil
}

func newDashboard(dash fakeDash) *analytics.DashboardUseCase {
	now := func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	return analytics.NewDashboardUseCase(dash,
		clientCounter{n: 7}, articleCounter{n: 12}, nil).WithClock(now)
}

// ──────────────────────────────────────────────────────────────────────────────
// DashboardUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_GetSummary(t *testing.T) {
	out, err := newDashboard(fakeDash{}).GetSummary(context.Background(), "company-1")
	require.NoError(t, err)

	assert.Equal(t, 7, out.Clients)
	assert.Equal(t, 12, out.Articles)
	assert.Equal(t, 4, out.SalesCount)
	assert.True(t, out.Outstanding.Equal(decimal.NewFromInt(240)), "solo emitidas sin pagar")
	assert.True(t, out.MonthlyRevenue.Equal(decimal.NewFromInt(300)))
	assert.True(t, out.MonthlyVAT.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "октомври 2026", out.DateLabel)

	require.Len(t, out.Revenue12M, 12)
	assert.Equal(t, "2025-11", out.Revenue12M[0].Month)
	assert.Equal(t, "2026-10", out.Revenue12M[11].Month)
	assert.True(t, out.Revenue12M[2].Revenue.Equal(decimal.NewFromInt(100)), "enero 2026")
	assert.True(t, out.Revenue12M[1].Revenue.IsZero(), "mes sin facturas en cero")

	require.Len(t, out.TopClients, 1)
	assert.Equal(t, "Клиент ООД", out.TopClients[0].Name)
}

func TestDashboard_ErrorEnUnaConsulta(t *testing.T) {
	boom := errors.New("db caída")
	_, err := newDashboard(fakeDash{salesErr: boom}).GetSummary(context.Background(), "company-1")
	assert.ErrorIs(t, err, boom)
}
