package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
	"github.com/jhoicas/fakturi-api/internal/domain/wizard"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newInvoiceSession(st *billing.SessionStore) *billing.Session {
	w := wizard.NewInvoiceWizard(draft.New(totals.KindInvoice, dec("0.2")))
	return st.Create(actor, totals.KindInvoice, w)
}

func TestSessionStore_VencePorInactividad(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	st := billing.NewSessionStore(30 * time.Minute).WithClock(c.now)
	s := newInvoiceSession(st)

	c.t = c.t.Add(20 * time.Minute)
	require.NoError(t, st.With(actor, s.ID, func(*billing.Session) error { return nil }))
	assert.True(t, s.ExpiresAt().Equal(c.t.Add(30*time.Minute)), "el acceso extiende el vencimiento")

	c.t = c.t.Add(31 * time.Minute)
	err := st.With(actor, s.ID, func(*billing.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	st := billing.NewSessionStore(time.Minute).WithClock(c.now)
	newInvoiceSession(st)
	newInvoiceSession(st)
	assert.Equal(t, 0, st.Sweep())

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 2, st.Sweep())
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_OtraEmpresa(t *testing.T) {
	st := billing.NewSessionStore(0)
	s := newInvoiceSession(st)

	other := billing.Actor{CompanyID: "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c111", UserID: userID}
	_, err := st.Get(other, s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = st.Get(actor, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
