// Package wizard implementa la máquina de pasos que controla el avance y el envío de un borrador.
package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/fakturi-api/internal/domain/draft"
)

// StepName identificador estable de un paso.
type StepName string

const (
	StepClient   StepName = "client"
	StepArticles StepName = "articles"
	StepDetails  StepName = "details"
	StepSale     StepName = "sale"
)

// Step un paso y su validador (predicado puro sobre el borrador actual).
type Step struct {
	Name     StepName
	Validate func(*draft.Draft) bool
}

// StepState validez de un paso, calculada en el momento.
type StepState struct {
	Name    StepName `json:"name"`
	Valid   bool     `json:"valid"`
	Current bool     `json:"current"`
}

// Receipt respuesta exitosa del colaborador de persistencia.
type Receipt struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Persister colaborador que crea o actualiza el documento.
// Devuelve *draft.ValidationError para errores por campo; cualquier otro error es general.
type Persister interface {
	Persist(ctx context.Context, d *draft.Draft) (Receipt, error)
}

// SubmitStatus resultado de un envío.
type SubmitStatus string

const (
	SubmitBlocked     SubmitStatus = "blocked"
	SubmitCompleted   SubmitStatus = "completed"
	SubmitFieldErrors SubmitStatus = "field_errors"
	SubmitFailed      SubmitStatus = "failed"
)

// SubmitResult lo que ve el usuario tras pulsar enviar.
type SubmitResult struct {
	Status      SubmitStatus
	Receipt     Receipt
	FieldErrors draft.FieldErrors
	Messages    []string
}

var (
	// ErrSubmitInFlight ya hay un envío en curso para este asistente.
	ErrSubmitInFlight = errors.New("wizard: envío en curso")
	// ErrFinished el asistente ya terminó (enviado o descartado).
	ErrFinished = errors.New("wizard: asistente finalizado")
)

// Wizard dueño exclusivo de un borrador. No es seguro para uso concurrente salvo Submit,
// que rechaza un segundo envío mientras el primero no termina.
type Wizard struct {
	draft      *draft.Draft
	steps      []Step
	current    int
	submitting bool
	done       bool
	lastErrors draft.FieldErrors
}

// New asistente con pasos arbitrarios. Necesita al menos un paso.
func New(d *draft.Draft, steps ...Step) *Wizard {
	if len(steps) == 0 {
		panic("wizard: sin pasos")
	}
	return &Wizard{draft: d, steps: steps}
}

// NewInvoiceWizard cliente → artículos → detalles.
func NewInvoiceWizard(d *draft.Draft) *Wizard {
	return New(d,
		Step{Name: StepClient, Validate: func(d *draft.Draft) bool { return ValidParty(d.Buyer) }},
		Step{Name: StepArticles, Validate: func(d *draft.Draft) bool { return ValidArticles(d.Items) }},
		Step{Name: StepDetails, Validate: func(d *draft.Draft) bool { return ValidDetails(d.Details) }},
	)
}

// NewSaleWizard formulario de una sola página: cliente y artículos.
func NewSaleWizard(d *draft.Draft) *Wizard {
	return New(d, Step{Name: StepSale, Validate: func(d *draft.Draft) bool {
		return ValidParty(d.Buyer) && ValidArticles(d.Items)
	}})
}

// Draft borrador en edición; nil cuando el asistente terminó.
func (w *Wizard) Draft() *draft.Draft { return w.draft }

// Current índice del paso actual.
func (w *Wizard) Current() int { return w.current }

// CurrentStep paso actual.
func (w *Wizard) CurrentStep() Step { return w.steps[w.current] }

// StepCount cantidad de pasos.
func (w *Wizard) StepCount() int { return len(w.steps) }

// Done indica si el borrador ya fue enviado o descartado.
func (w *Wizard) Done() bool { return w.done }

// Submitting hay un envío pendiente.
func (w *Wizard) Submitting() bool { return w.submitting }

// LastFieldErrors errores por campo del último envío rechazado.
func (w *Wizard) LastFieldErrors() draft.FieldErrors { return w.lastErrors }

func (w *Wizard) isLast() bool { return w.current == len(w.steps)-1 }

func (w *Wizard) valid(i int) bool {
	return w.draft != nil && w.steps[i].Validate(w.draft)
}

// CanNext el paso actual es válido y hay un paso siguiente.
func (w *Wizard) CanNext() bool {
	return !w.done && !w.isLast() && w.valid(w.current)
}

// CanSubmit último paso, validador final OK y sin envío en curso.
func (w *Wizard) CanSubmit() bool {
	return !w.done && !w.submitting && w.isLast() && w.valid(w.current)
}

// Next avanza un paso si el actual es válido.
func (w *Wizard) Next() bool {
	if !w.CanNext() {
		return false
	}
	w.current++
	return true
}

// Back retrocede un paso. Los datos de pasos posteriores se conservan.
func (w *Wizard) Back() bool {
	if w.done || w.current == 0 {
		return false
	}
	w.current--
	return true
}

// GoTo salta a index. Hacia atrás siempre; hacia adelante solo si todos los pasos intermedios son válidos.
func (w *Wizard) GoTo(index int) bool {
	if w.done || index < 0 || index >= len(w.steps) {
		return false
	}
	for i := w.current; i < index; i++ {
		if !w.valid(i) {
			return false
		}
	}
	w.current = index
	return true
}

// StepStates validez de cada paso, sin caché.
func (w *Wizard) StepStates() []StepState {
	out := make([]StepState, len(w.steps))
	for i, s := range w.steps {
		out[i] = StepState{Name: s.Name, Valid: w.valid(i), Current: i == w.current}
	}
	return out
}

// Submit entrega el borrador al colaborador si está permitido.
// Con éxito el borrador se descarta; con errores (por campo o generales) se conserva.
func (w *Wizard) Submit(ctx context.Context, p Persister) (SubmitResult, error) {
	if w.done {
		return SubmitResult{Status: SubmitBlocked}, ErrFinished
	}
	if w.submitting {
		return SubmitResult{Status: SubmitBlocked}, ErrSubmitInFlight
	}
	if !w.CanSubmit() {
		return SubmitResult{Status: SubmitBlocked}, nil
	}

	w.submitting = true
	receipt, err := p.Persist(ctx, w.draft.Clone())
	w.submitting = false

	if err != nil {
		var ve *draft.ValidationError
		if errors.As(err, &ve) {
			w.lastErrors = ve.Fields
			return SubmitResult{Status: SubmitFieldErrors, FieldErrors: ve.Fields, Messages: ve.General}, nil
		}
		w.lastErrors = nil
		return SubmitResult{Status: SubmitFailed, Messages: []string{err.Error()}}, nil
	}

	w.lastErrors = nil
	w.Discard()
	return SubmitResult{Status: SubmitCompleted, Receipt: receipt}, nil
}

// Discard cancela el asistente y suelta el borrador.
func (w *Wizard) Discard() {
	w.done = true
	w.draft = nil
}
