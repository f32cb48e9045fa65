package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
	"github.com/jhoicas/fakturi-api/internal/domain/wizard"
)

const (
	msgDuplicateNumber = "Фактура с този номер вече съществува"
	msgUnknownClient   = "Клиентът не съществува"
)

// Config parámetros de facturación.
type Config struct {
	VATRate  decimal.Decimal
	Currency string
}

// InvoiceUseCase alta, edición y consulta de facturas. También es el colaborador de
// persistencia de los borradores de factura.
type InvoiceUseCase struct {
	tx          BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	xml         InvoiceXMLBuilder
	cache       ports.Cache
	validate    *validation.Validator
	cfg         Config
}

// NewInvoiceUseCase construye el caso de uso. xml puede ser nil (sin digest).
func NewInvoiceUseCase(
	tx BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	xml InvoiceXMLBuilder,
	cache ports.Cache,
	v *validation.Validator,
	cfg Config,
) *InvoiceUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	if cfg.VATRate.IsZero() {
		cfg.VATRate = totals.DefaultVATRate
	}
	if cfg.Currency == "" {
		cfg.Currency = "BGN"
	}
	RegisterRules(v)
	return &InvoiceUseCase{
		tx:          tx,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		xml:         xml,
		cache:       cache,
		validate:    v,
		cfg:         cfg,
	}
}

// VATRate tasa de ДДС vigente.
func (uc *InvoiceUseCase) VATRate() decimal.Decimal { return uc.cfg.VATRate }

// Currency moneda por defecto.
func (uc *InvoiceUseCase) Currency() string { return uc.cfg.Currency }

// Create emite una factura nueva con sus líneas.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor Actor, in dto.InvoiceInput) (*dto.InvoiceResponse, error) {
	inv, items, err := uc.save(ctx, actor, "", in)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Update reemplaza cabecera y líneas de una factura existente.
func (uc *InvoiceUseCase) Update(ctx context.Context, actor Actor, id string, in dto.InvoiceInput) (*dto.InvoiceResponse, error) {
	inv, items, err := uc.save(ctx, actor, id, in)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Persister colaborador de persistencia de un borrador de factura.
func (uc *InvoiceUseCase) Persister(actor Actor) wizard.Persister {
	return invoicePersister{uc: uc, actor: actor}
}

type invoicePersister struct {
	uc    *InvoiceUseCase
	actor Actor
}

// Persist crea o actualiza según EditingID. Los errores por campo vuelven como *draft.ValidationError.
func (p invoicePersister) Persist(ctx context.Context, d *draft.Draft) (wizard.Receipt, error) {
	inv, _, err := p.uc.save(ctx, p.actor, d.EditingID, InvoiceInputFromDraft(d))
	if err != nil {
		return wizard.Receipt{}, asDraftError(err)
	}
	return wizard.Receipt{ID: inv.ID, CreatedAt: inv.CreatedAt}, nil
}

func (uc *InvoiceUseCase) normalize(in dto.InvoiceInput) dto.InvoiceInput {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Seller = trimParty(in.Seller)
	in.Buyer = trimParty(in.Buyer)
	in.Items = trimItems(in.Items)
	d := &in.Details
	d.DocumentNumber = strings.TrimSpace(d.DocumentNumber)
	d.DocumentDate = strings.TrimSpace(d.DocumentDate)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	d.DealLocation = strings.TrimSpace(d.DealLocation)
	d.Author = strings.TrimSpace(d.Author)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if d.Currency == "" {
		d.Currency = uc.cfg.Currency
	}
	return in
}

// save valida, recalcula totales y guarda la factura en una transacción.
// id vacío = alta.
func (uc *InvoiceUseCase) save(ctx context.Context, actor Actor, id string, in dto.InvoiceInput) (*entity.Invoice, []*entity.InvoiceItem, error) {
	in = uc.normalize(in)
	if err := uc.validate.Struct(in); err != nil {
		return nil, nil, err
	}
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, actor.CompanyID, in.ClientID)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, validation.Field("client_id", msgUnknownClient)
		}
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            id,
		CompanyID:     actor.CompanyID,
		ClientID:      in.ClientID,
		Number:        in.Details.DocumentNumber,
		Date:          parseDate(in.Details.DocumentDate, now),
		DueDate:       parseDate(in.Details.DueDate, now),
		PaymentMethod: in.Details.PaymentMethod,
		DealLocation:  in.Details.DealLocation,
		Author:        in.Details.Author,
		Currency:      in.Details.Currency,
		Seller:        partyFromInput(in.Seller),
		Buyer:         partyFromInput(in.Buyer),
		VATRate:       uc.cfg.VATRate,
		Status:        entity.InvoiceStatusIssued,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	items, lineTotals := buildItems(inv.ID, in.Items)

	err := uc.tx.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.SaleRepository) error {
		if id != "" {
			current, err := invoiceRepo.GetByID(ctx, actor.CompanyID, id)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			if current.Status == entity.InvoiceStatusCancelled {
				return fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
			}
			inv.SaleID = current.SaleID
			inv.Status = current.Status
			inv.VATRate = current.VATRate
			inv.CreatedBy = current.CreatedBy
			inv.CreatedAt = current.CreatedAt
		}
		// una factura editada conserva la tasa con la que se emitió
		t := totals.InvoiceTotals(lineTotals, inv.VATRate)
		inv.Subtotal, inv.VATTotal, inv.GrandTotal = t.Subtotal, t.VAT, t.GrandTotal
		other, err := invoiceRepo.GetByNumber(ctx, actor.CompanyID, inv.Number)
		if err != nil {
			return err
		}
		if other != nil && other.ID != inv.ID {
			return validation.Field("details.document_number", msgDuplicateNumber)
		}
		if err := uc.applyDigest(inv, items); err != nil {
			return err
		}
		if id != "" {
			return invoiceRepo.Update(ctx, inv, items)
		}
		return invoiceRepo.Create(ctx, inv, items)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, nil, validation.Field("details.document_number", msgDuplicateNumber)
	}
	if err != nil {
		return nil, nil, err
	}
	uc.bump(ctx, actor.CompanyID)
	return inv, items, nil
}

func (uc *InvoiceUseCase) applyDigest(inv *entity.Invoice, items []*entity.InvoiceItem) error {
	if uc.xml == nil {
		return nil
	}
	_, digest, err := uc.xml.Build(InvoiceDocument{Invoice: inv, Items: items})
	if err != nil {
		return fmt.Errorf("xml: %w", err)
	}
	inv.Digest = digest
	return nil
}

// Document factura con líneas (PDF, XML, edición).
func (uc *InvoiceUseCase) Document(ctx context.Context, companyID, id string) (InvoiceDocument, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return InvoiceDocument{}, err
	}
	if inv == nil {
		return InvoiceDocument{}, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return InvoiceDocument{}, err
	}
	return InvoiceDocument{Invoice: inv, Items: items}, nil
}

// Get factura con su detalle.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	doc, err := uc.Document(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(doc.Invoice, doc.Items), nil
}

// DraftFor borrador en modo edición con los datos de la factura guardada.
func (uc *InvoiceUseCase) DraftFor(ctx context.Context, companyID, id string) (*draft.Draft, error) {
	doc, err := uc.Document(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	inv := doc.Invoice
	d := draft.New(totals.KindInvoice, inv.VATRate)
	d.EditingID = inv.ID
	d.ClientID = inv.ClientID
	d.Seller = draftParty(inv.Seller)
	d.Buyer = draftParty(inv.Buyer)
	if len(doc.Items) > 0 {
		d.Items = draftItems(doc.Items)
	}
	d.Details = draft.Details{
		DocumentNumber: inv.Number,
		DocumentDate:   inv.Date.Format(dateLayout),
		DueDate:        inv.DueDate.Format(dateLayout),
		PaymentMethod:  inv.PaymentMethod,
		DealLocation:   inv.DealLocation,
		Author:         inv.Author,
		Currency:       inv.Currency,
	}
	d.Recompute()
	return d, nil
}

// NextNumber número propuesto para una factura nueva.
func (uc *InvoiceUseCase) NextNumber(ctx context.Context, companyID string) (string, error) {
	return uc.invoiceRepo.NextNumber(ctx, companyID)
}

// List facturas por empresa con búsqueda, cliente, estado y rango de fechas.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	page := dto.NewPage(in.Limit, in.Offset)
	f := repository.InvoiceFilter{
		Search:   strings.TrimSpace(in.Search),
		ClientID: in.ClientID,
		Status:   in.Status,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if in.From != "" {
		from := parseDate(in.From, time.Time{})
		f.From = &from
	}
	if in.To != "" {
		to := parseDate(in.To, time.Time{}).AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &to
	}
	key, err := uc.cache.Key(ctx, companyID, ports.CacheInvoices, "list",
		f.Search, f.ClientID, f.Status, in.From, in.To, strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))
	if err != nil {
		return nil, err
	}
	var out dto.InvoiceListResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		list, total, err := uc.invoiceRepo.List(ctx, companyID, f)
		if err != nil {
			return nil, err
		}
		items := make([]dto.InvoiceResponse, 0, len(list))
		for _, inv := range list {
			items = append(items, *toInvoiceResponse(inv, nil))
		}
		return dto.InvoiceListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus cambia el estado (pagada, anulada...). Una factura anulada no cambia más.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, companyID, id string, in dto.InvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status == entity.InvoiceStatusCancelled && in.Status != entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, companyID, id, in.Status); err != nil {
		return nil, err
	}
	inv.Status = in.Status
	uc.bump(ctx, companyID)
	return toInvoiceResponse(inv, nil), nil
}

// Delete elimina la factura y sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, companyID, id string) error {
	if err := uc.invoiceRepo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.bump(ctx, companyID)
	return nil
}

func (uc *InvoiceUseCase) bump(ctx context.Context, companyID string) {
	_ = uc.cache.Bump(ctx, companyID, ports.CacheInvoices)
	_ = uc.cache.Bump(ctx, companyID, ports.CacheDashboard)
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		ClientID:      inv.ClientID,
		SaleID:        inv.SaleID,
		Number:        inv.Number,
		Date:          inv.Date.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		PaymentMethod: inv.PaymentMethod,
		DealLocation:  inv.DealLocation,
		Author:        inv.Author,
		Currency:      inv.Currency,
		Seller:        toPartyResponse(inv.Seller),
		Buyer:         toPartyResponse(inv.Buyer),
		VATRate:       inv.VATRate,
		Totals:        totalsResponse(inv.Subtotal, inv.VATTotal, inv.GrandTotal),
		Status:        inv.Status,
		Digest:        inv.Digest,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if items != nil {
		resp.Items = toItemResponses(items)
	}
	return resp
}
