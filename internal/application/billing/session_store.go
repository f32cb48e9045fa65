package billing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
	"github.com/jhoicas/fakturi-api/internal/domain/wizard"
)

// Session un asistente en curso. mu serializa las mutaciones; submitting marca un envío
// pendiente para rechazar el segundo sin esperar al candado.
type Session struct {
	ID        string
	Kind      totals.DocumentKind
	CompanyID string
	UserID    string

	mu         sync.Mutex
	wizard     *wizard.Wizard
	submitting atomic.Bool
	expiresAt  time.Time
}

// ExpiresAt vencimiento actual (se extiende en cada acceso).
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// SessionStore sesiones de borradores en memoria con vencimiento por inactividad.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore ttl <= 0 usa 60 minutos.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{sessions: map[string]*Session{}, ttl: ttl, now: time.Now}
}

// WithClock fija el reloj (pruebas).
func (st *SessionStore) WithClock(now func() time.Time) *SessionStore {
	st.now = now
	return st
}

// Create registra una sesión nueva para el asistente.
func (st *SessionStore) Create(actor Actor, kind totals.DocumentKind, w *wizard.Wizard) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Kind:      kind,
		CompanyID: actor.CompanyID,
		UserID:    actor.UserID,
		wizard:    w,
		expiresAt: st.now().Add(st.ttl),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get sesión vigente de la empresa. Otra empresa → ErrForbidden.
func (st *SessionStore) Get(actor Actor, id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != actor.CompanyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// With ejecuta fn con la sesión bloqueada y extiende su vencimiento.
func (st *SessionStore) With(actor Actor, id string, fn func(s *Session) error) error {
	s, err := st.Get(actor, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := st.now()
	if now.After(s.expiresAt) || s.wizard.Done() {
		st.Remove(s.ID)
		return domain.ErrNotFound
	}
	s.expiresAt = now.Add(st.ttl)
	return fn(s)
}

// Remove elimina la sesión.
func (st *SessionStore) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len sesiones registradas.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep elimina las sesiones vencidas o terminadas. Devuelve cuántas eliminó.
func (st *SessionStore) Sweep() int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		// TryLock: una sesión ocupada está en uso y no vence ahora.
		if !s.mu.TryLock() {
			continue
		}
		if now.After(s.expiresAt) || s.wizard.Done() {
			delete(st.sessions, id)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Run barre periódicamente hasta que ctx termine.
func (st *SessionStore) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}
