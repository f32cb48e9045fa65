package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/fakturi-api/internal/application/auth"
	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
	"github.com/jhoicas/fakturi-api/internal/domain/wizard"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

const (
	msgSaveFailed = "Документът не можа да бъде записан. Опитайте отново."
	msgDocMissing = "Документът вече не съществува."
	msgDocLocked  = "Документът е анулиран или променен междувременно. Заредете го отново."
	msgNoAccess   = "Нямате права върху този документ."
)

// IdentityProvider usuario y empresa en sesión (solo lectura).
type IdentityProvider interface {
	Identity(ctx context.Context, userID string) (*auth.Identity, error)
}

// DraftUseCase asistentes de factura y venta. Cada sesión tiene un único escritor a la vez.
type DraftUseCase struct {
	store       *SessionStore
	identity    IdentityProvider
	articleRepo repository.ArticleRepository
	clientRepo  repository.ClientRepository
	invoices    *InvoiceUseCase
	sales       *SaleUseCase
	validate    *validation.Validator
	log         *logger.Logger
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(
	store *SessionStore,
	identity IdentityProvider,
	articleRepo repository.ArticleRepository,
	clientRepo repository.ClientRepository,
	invoices *InvoiceUseCase,
	sales *SaleUseCase,
	v *validation.Validator,
	log *logger.Logger,
) *DraftUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DraftUseCase{
		store:       store,
		identity:    identity,
		articleRepo: articleRepo,
		clientRepo:  clientRepo,
		invoices:    invoices,
		sales:       sales,
		validate:    v,
		log:         log.WithComponent("drafts"),
	}
}

// Start abre un asistente nuevo o, con edit_id, uno en modo edición.
func (uc *DraftUseCase) Start(ctx context.Context, actor Actor, in dto.StartDraftRequest) (*dto.DraftResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	kind := totals.DocumentKind(in.Kind)
	var (
		d   *draft.Draft
		err error
	)
	if in.EditID != "" {
		d, err = uc.load(ctx, actor, kind, in.EditID)
	} else {
		d, err = uc.prefilled(ctx, actor, kind)
	}
	if err != nil {
		return nil, err
	}
	w := wizard.NewInvoiceWizard(d)
	if kind == totals.KindSale {
		w = wizard.NewSaleWizard(d)
	}
	s := uc.store.Create(actor, kind, w)
	uc.log.Debug().Str("draft_id", s.ID).Str("kind", string(kind)).Str("edit_id", in.EditID).Msg("borrador iniciado")
	return toDraftResponse(s), nil
}

func (uc *DraftUseCase) load(ctx context.Context, actor Actor, kind totals.DocumentKind, id string) (*draft.Draft, error) {
	if kind == totals.KindSale {
		return uc.sales.DraftFor(ctx, actor.CompanyID, id)
	}
	return uc.invoices.DraftFor(ctx, actor.CompanyID, id)
}

// prefilled borrador con proveedor = empresa, autor = usuario, número y fecha del día.
func (uc *DraftUseCase) prefilled(ctx context.Context, actor Actor, kind totals.DocumentKind) (*draft.Draft, error) {
	id, err := uc.identity.Identity(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if id.Company.ID != actor.CompanyID {
		return nil, domain.ErrForbidden
	}
	d := draft.New(kind, uc.invoices.VATRate())
	d.Details.Author = id.User.FullName()
	d.Details.Currency = uc.invoices.Currency()
	d.Details.DocumentDate = time.Now().Format(dateLayout)
	if kind == totals.KindInvoice {
		d.Seller = draftParty(id.Company.AsParty())
		number, err := uc.invoices.NextNumber(ctx, actor.CompanyID)
		if err != nil {
			return nil, err
		}
		d.Details.DocumentNumber = number
	}
	return d, nil
}

// Get estado actual del borrador.
func (uc *DraftUseCase) Get(actor Actor, id string) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := uc.store.With(actor, id, func(s *Session) error {
		out = toDraftResponse(s)
		return nil
	})
	return out, err
}

// mutate aplica fn al borrador y devuelve el estado resultante. fn false = entrada inválida.
func (uc *DraftUseCase) mutate(actor Actor, id string, fn func(d *draft.Draft, w *wizard.Wizard) bool) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := uc.store.With(actor, id, func(s *Session) error {
		if s.submitting.Load() {
			return domain.ErrConflict
		}
		if !fn(s.wizard.Draft(), s.wizard) {
			return domain.ErrInvalidInput
		}
		out = toDraftResponse(s)
		return nil
	})
	return out, err
}

// AddItem agrega una fila vacía.
func (uc *DraftUseCase) AddItem(actor Actor, id string) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		d.AddItem()
		return true
	})
}

// RemoveItem quita la fila index; la última fila no se puede quitar.
func (uc *DraftUseCase) RemoveItem(actor Actor, id string, index int) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		return d.RemoveItem(index)
	})
}

// PatchItem edita campos de una fila; los números llegan como texto.
func (uc *DraftUseCase) PatchItem(actor Actor, id string, index int, in dto.DraftItemPatchRequest) (*dto.DraftResponse, error) {
	p := draft.ItemPatch{
		ArticleID:       in.ArticleID,
		Description:     in.Description,
		Quantity:        textPtr(in.Quantity),
		UnitPrice:       textPtr(in.UnitPrice),
		DiscountPercent: textPtr(in.Discount),
	}
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		return d.PatchItem(index, p)
	})
}

// SelectArticle completa la fila con un artículo del catálogo.
func (uc *DraftUseCase) SelectArticle(ctx context.Context, actor Actor, id string, index int, in dto.DraftSelectArticleRequest) (*dto.DraftResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	article, err := uc.articleRepo.GetByID(ctx, actor.CompanyID, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	ref := draft.ArticleRef{ID: article.ID, Name: article.Name, Price: article.Price}
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		return d.SelectArticle(index, ref)
	})
}

// SelectClient toma el comprador del catálogo de clientes.
func (uc *DraftUseCase) SelectClient(ctx context.Context, actor Actor, id string, in dto.DraftSelectClientRequest) (*dto.DraftResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.clientRepo.GetByID(ctx, actor.CompanyID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	party := draftParty(client.AsParty())
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		d.SelectClient(client.ID, party)
		return true
	})
}

// PatchParty edita vendedor o comprador.
func (uc *DraftUseCase) PatchParty(actor Actor, id string, role draft.Role, in dto.DraftPartyPatchRequest) (*dto.DraftResponse, error) {
	p := draft.PartyPatch{
		Name:          in.Name,
		TaxID:         in.TaxID,
		VATNumber:     in.VATNumber,
		ContactPerson: in.ContactPerson,
		Address:       in.Address,
		BankAccount:   in.BankAccount,
	}
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		return d.PatchParty(role, p)
	})
}

// PatchDetails edita los datos adicionales.
func (uc *DraftUseCase) PatchDetails(actor Actor, id string, in dto.DraftDetailsPatchRequest) (*dto.DraftResponse, error) {
	p := draft.DetailsPatch{
		DocumentNumber: in.DocumentNumber,
		DocumentDate:   in.DocumentDate,
		DueDate:        in.DueDate,
		PaymentMethod:  in.PaymentMethod,
		DealLocation:   in.DealLocation,
		Author:         in.Author,
		Currency:       in.Currency,
	}
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		d.PatchDetails(p)
		return true
	})
}

// SetDiscount descuento global (venta) y marca de emitir factura.
func (uc *DraftUseCase) SetDiscount(actor Actor, id string, in dto.DraftDiscountRequest) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(d *draft.Draft, _ *wizard.Wizard) bool {
		if in.Discount != nil {
			d.SetGlobalDiscount(in.Discount.String())
		}
		if in.CreateInvoice != nil {
			d.CreateInvoice = *in.CreateInvoice
		}
		return true
	})
}

// Next avanza si el paso actual es válido. Sin avance se devuelve el mismo estado.
func (uc *DraftUseCase) Next(actor Actor, id string) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(_ *draft.Draft, w *wizard.Wizard) bool {
		w.Next()
		return true
	})
}

// Back retrocede un paso conservando los datos.
func (uc *DraftUseCase) Back(actor Actor, id string) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(_ *draft.Draft, w *wizard.Wizard) bool {
		w.Back()
		return true
	})
}

// GoTo salta a un paso; hacia adelante solo por pasos válidos.
func (uc *DraftUseCase) GoTo(actor Actor, id string, index int) (*dto.DraftResponse, error) {
	return uc.mutate(actor, id, func(_ *draft.Draft, w *wizard.Wizard) bool {
		if index < 0 || index >= w.StepCount() {
			return false
		}
		w.GoTo(index)
		return true
	})
}

// Cancel descarta el borrador.
func (uc *DraftUseCase) Cancel(actor Actor, id string) error {
	err := uc.store.With(actor, id, func(s *Session) error {
		if s.submitting.Load() {
			return domain.ErrConflict
		}
		s.wizard.Discard()
		return nil
	})
	if err != nil {
		return err
	}
	uc.store.Remove(id)
	return nil
}

// Submit entrega el borrador al caso de uso de factura o venta. Un segundo envío mientras
// el primero está en curso devuelve ErrConflict.
func (uc *DraftUseCase) Submit(ctx context.Context, actor Actor, id string) (*dto.DraftSubmitResponse, error) {
	s, err := uc.store.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, domain.ErrConflict
	}
	defer s.submitting.Store(false)

	var (
		res  wizard.SubmitResult
		resp *dto.DraftResponse
	)
	err = uc.store.With(actor, id, func(s *Session) error {
		persister := uc.persister(s, actor)
		r, err := s.wizard.Submit(ctx, persister)
		if errors.Is(err, wizard.ErrSubmitInFlight) {
			return domain.ErrConflict
		}
		if err != nil {
			return err
		}
		res = r
		if !s.wizard.Done() {
			resp = toDraftResponse(s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if res.Status == wizard.SubmitFailed {
		ev = uc.log.Warn()
	}
	ev.Str("draft_id", id).Str("kind", string(s.Kind)).Str("status", string(res.Status)).Msg("envío de borrador")
	if res.Status == wizard.SubmitCompleted {
		uc.store.Remove(id)
	}
	return toSubmitResponse(res, resp), nil
}

func (uc *DraftUseCase) persister(s *Session, actor Actor) wizard.Persister {
	var inner wizard.Persister = uc.invoices.Persister(actor)
	if s.Kind == totals.KindSale {
		inner = uc.sales.Persister(actor)
	}
	return guardedPersister{inner: inner, log: uc.log, draftID: s.ID}
}

// guardedPersister registra los fallos generales y devuelve al usuario solo mensajes propios.
type guardedPersister struct {
	inner   wizard.Persister
	log     *logger.Logger
	draftID string
}

func (p guardedPersister) Persist(ctx context.Context, d *draft.Draft) (wizard.Receipt, error) {
	r, err := p.inner.Persist(ctx, d)
	if err == nil {
		return r, nil
	}
	var ve *draft.ValidationError
	switch {
	case errors.As(err, &ve):
		return r, err
	case errors.Is(err, domain.ErrNotFound):
		return r, errors.New(msgDocMissing)
	case errors.Is(err, domain.ErrConflict):
		return r, errors.New(msgDocLocked)
	case errors.Is(err, domain.ErrForbidden):
		return r, errors.New(msgNoAccess)
	}
	p.log.Error().Err(err).Str("draft_id", p.draftID).Msg("persistencia de borrador")
	return r, errors.New(msgSaveFailed)
}

func textPtr(n *dto.NumberText) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}

func toDraftResponse(s *Session) *dto.DraftResponse {
	w := s.wizard
	d := w.Draft()
	resp := &dto.DraftResponse{
		ID:          s.ID,
		Kind:        string(s.Kind),
		CurrentStep: w.Current(),
		CanNext:     w.CanNext(),
		CanSubmit:   w.CanSubmit(),
		ExpiresAt:   s.ExpiresAt(),
	}
	for i, st := range w.StepStates() {
		resp.Steps = append(resp.Steps, dto.DraftStepResponse{Index: i, Name: string(st.Name), Valid: st.Valid, Current: st.Current})
	}
	if fe := w.LastFieldErrors(); len(fe) > 0 {
		resp.FieldErrors = make(map[string]string, len(fe))
		for k, v := range fe {
			resp.FieldErrors[string(k)] = v
		}
	}
	if d == nil {
		return resp
	}
	resp.EditingID = d.EditingID
	resp.Seller = draftPartyResponse(d.Seller)
	resp.Buyer = draftPartyResponse(d.Buyer)
	resp.GlobalDiscount = d.GlobalDiscountPercent
	resp.VATRate = d.VATRate
	resp.CreateInvoice = d.CreateInvoice
	resp.Details = dto.DraftDetailsResponse{
		DocumentNumber: d.Details.DocumentNumber,
		DocumentDate:   d.Details.DocumentDate,
		DueDate:        d.Details.DueDate,
		PaymentMethod:  d.Details.PaymentMethod,
		DealLocation:   d.Details.DealLocation,
		Author:         d.Details.Author,
		Currency:       d.Details.Currency,
	}
	resp.Items = make([]dto.DraftItemResponse, 0, len(d.Items))
	for i, it := range d.Items {
		resp.Items = append(resp.Items, dto.DraftItemResponse{
			Index:           i,
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total.Round(2),
		})
	}
	resp.Totals = totalsResponse(d.Totals.Subtotal, d.Totals.VAT, d.Totals.GrandTotal)
	return resp
}

func draftPartyResponse(p draft.Party) dto.PartyResponse {
	return dto.PartyResponse{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
		BankAccount:   p.BankAccount,
	}
}

func toSubmitResponse(res wizard.SubmitResult, d *dto.DraftResponse) *dto.DraftSubmitResponse {
	out := &dto.DraftSubmitResponse{Status: string(res.Status), Draft: d}
	switch res.Status {
	case wizard.SubmitCompleted:
		out.DocumentID = res.Receipt.ID
		created := res.Receipt.CreatedAt
		out.CreatedAt = &created
	case wizard.SubmitFieldErrors:
		out.Errors = make(map[string][]string, len(res.FieldErrors))
		for k, v := range res.FieldErrors {
			out.Errors[string(k)] = []string{v}
		}
		if len(res.Messages) > 0 {
			out.Message = res.Messages[0]
		}
	case wizard.SubmitFailed:
		if len(res.Messages) > 0 {
			out.Message = res.Messages[0]
		}
	case wizard.SubmitBlocked:
		out.Message = "Попълнете задължителните полета"
	}
	return out
}
