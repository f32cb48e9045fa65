package billing

import (
	"context"
	"errors"
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

var hundred = decimal.NewFromInt(100)

// SaleUseCase ventas con descuento global. Con create_invoice emite además la factura
// en la misma transacción.
type SaleUseCase struct {
	tx          BillingTxRunner
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
	invoices    *InvoiceUseCase
	cache       ports.Cache
	validate    *validation.Validator
}

// NewSaleUseCase construye el caso de uso. invoices aporta tasa de ДДС, moneda y digest.
func NewSaleUseCase(
	tx BillingTxRunner,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	invoices *InvoiceUseCase,
	cache ports.Cache,
	v *validation.Validator,
) *SaleUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &SaleUseCase{
		tx:          tx,
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		invoices:    invoices,
		cache:       cache,
		validate:    v,
	}
}

// Create registra una venta.
func (uc *SaleUseCase) Create(ctx context.Context, actor Actor, in dto.SaleInput) (*dto.SaleResponse, error) {
	sale, items, err := uc.save(ctx, actor, "", in)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// Persister colaborador de persistencia de un borrador de venta.
func (uc *SaleUseCase) Persister(actor Actor) wizard.Persister {
	return salePersister{uc: uc, actor: actor}
}

type salePersister struct {
	uc    *SaleUseCase
	actor Actor
}

func (p salePersister) Persist(ctx context.Context, d *draft.Draft) (wizard.Receipt, error) {
	sale, _, err := p.uc.save(ctx, p.actor, d.EditingID, SaleInputFromDraft(d))
	if err != nil {
		return wizard.Receipt{}, asDraftError(err)
	}
	return wizard.Receipt{ID: sale.ID, CreatedAt: sale.CreatedAt}, nil
}

func (uc *SaleUseCase) save(ctx context.Context, actor Actor, id string, in dto.SaleInput) (*entity.Sale, []*entity.InvoiceItem, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Buyer = trimParty(in.Buyer)
	in.Items = trimItems(in.Items)
	in.Date = strings.TrimSpace(in.Date)
	in.Author = strings.TrimSpace(in.Author)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
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
	if in.PaymentMethod == "" {
		in.PaymentMethod = draft.PaymentCash
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:                    id,
		CompanyID:             actor.CompanyID,
		ClientID:              in.ClientID,
		Date:                  parseDate(in.Date, now),
		Buyer:                 partyFromInput(in.Buyer),
		Author:                in.Author,
		PaymentMethod:         in.PaymentMethod,
		GlobalDiscountPercent: in.GlobalDiscountPercent,
		VATRate:               uc.invoices.VATRate(),
		CreatedBy:             actor.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	items, lineTotals := buildItems(sale.ID, in.Items)
	applyTotals := func() {
		t := totals.SaleTotals(lineTotals, sale.VATRate, sale.GlobalDiscountPercent)
		sale.Subtotal, sale.VATTotal, sale.GrandTotal = t.Subtotal, t.VAT, t.GrandTotal
	}

	var company *entity.Company
	if in.CreateInvoice {
		c, err := uc.companyRepo.GetByID(ctx, actor.CompanyID)
		if err != nil {
			return nil, nil, err
		}
		if c == nil {
			return nil, nil, domain.ErrNotFound
		}
		company = c
	}

	err := uc.tx.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, saleRepo repository.SaleRepository) error {
		if id != "" {
			current, err := saleRepo.GetByID(ctx, actor.CompanyID, id)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			sale.Number = current.Number
			sale.InvoiceID = current.InvoiceID
			sale.VATRate = current.VATRate
			sale.CreatedBy = current.CreatedBy
			sale.CreatedAt = current.CreatedAt
			applyTotals()
			if err := saleRepo.Update(ctx, sale, items); err != nil {
				return err
			}
		} else {
			number, err := saleRepo.NextNumber(ctx, actor.CompanyID)
			if err != nil {
				return err
			}
			sale.Number = number
			applyTotals()
			if err := saleRepo.Create(ctx, sale, items); err != nil {
				return err
			}
		}
		if company == nil || sale.InvoiceID != "" {
			return nil
		}
		inv, invItems, err := uc.invoiceFromSale(ctx, invoiceRepo, company, sale, items)
		if err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, inv, invItems); err != nil {
			return err
		}
		sale.InvoiceID = inv.ID
		return saleRepo.SetInvoiceID(ctx, sale.ID, inv.ID)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, nil, domain.ErrConflict
	}
	if err != nil {
		return nil, nil, err
	}
	_ = uc.cache.Bump(ctx, actor.CompanyID, ports.CacheSales)
	_ = uc.cache.Bump(ctx, actor.CompanyID, ports.CacheDashboard)
	if in.CreateInvoice {
		_ = uc.cache.Bump(ctx, actor.CompanyID, ports.CacheInvoices)
	}
	return sale, items, nil
}

// invoiceFromSale factura de la venta. El descuento global se reparte en cada línea para que
// el total de la factura coincida con el de la venta.
func (uc *SaleUseCase) invoiceFromSale(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	company *entity.Company,
	sale *entity.Sale,
	items []*entity.InvoiceItem,
) (*entity.Invoice, []*entity.InvoiceItem, error) {
	number, err := invoiceRepo.NextNumber(ctx, sale.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		CompanyID:     sale.CompanyID,
		ClientID:      sale.ClientID,
		SaleID:        sale.ID,
		Number:        number,
		Date:          sale.Date,
		DueDate:       sale.Date,
		PaymentMethod: sale.PaymentMethod,
		DealLocation:  company.Address,
		Author:        sale.Author,
		Currency:      uc.invoices.Currency(),
		Seller:        company.AsParty(),
		Buyer:         sale.Buyer,
		VATRate:       sale.VATRate,
		Status:        entity.InvoiceStatusIssued,
		CreatedBy:     sale.CreatedBy,
		CreatedAt:     sale.CreatedAt,
		UpdatedAt:     sale.UpdatedAt,
	}
	lineTotals := make([]decimal.Decimal, 0, len(items))
	invItems := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		discount := CombinedDiscount(it.DiscountPercent, sale.GlobalDiscountPercent)
		total := totals.ComputeItemTotal(it.Quantity, it.UnitPrice, discount)
		invItems = append(invItems, &entity.InvoiceItem{
			ID:              uuid.New().String(),
			DocumentID:      inv.ID,
			Position:        it.Position,
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: discount,
			Total:           total,
		})
		lineTotals = append(lineTotals, total)
	}
	t := totals.InvoiceTotals(lineTotals, inv.VATRate)
	inv.Subtotal, inv.VATTotal, inv.GrandTotal = t.Subtotal, t.VAT, t.GrandTotal
	if err := uc.invoices.applyDigest(inv, invItems); err != nil {
		return nil, nil, err
	}
	return inv, invItems, nil
}

// CombinedDiscount descuento equivalente a aplicar line y después global: 100 - (100-l)(100-g)/100.
func CombinedDiscount(line, global decimal.Decimal) decimal.Decimal {
	if global.IsZero() {
		return line
	}
	return hundred.Sub(hundred.Sub(line).Mul(hundred.Sub(global)).Div(hundred))
}

// Get venta con su detalle.
func (uc *SaleUseCase) Get(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, items, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func (uc *SaleUseCase) load(ctx context.Context, companyID, id string) (*entity.Sale, []*entity.InvoiceItem, error) {
	sale, err := uc.saleRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

// DraftFor borrador en modo edición de una venta guardada.
func (uc *SaleUseCase) DraftFor(ctx context.Context, companyID, id string) (*draft.Draft, error) {
	sale, items, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	d := draft.New(totals.KindSale, sale.VATRate)
	d.EditingID = sale.ID
	d.ClientID = sale.ClientID
	d.Buyer = draftParty(sale.Buyer)
	if len(items) > 0 {
		d.Items = draftItems(items)
	}
	d.GlobalDiscountPercent = sale.GlobalDiscountPercent
	d.Details.DocumentNumber = sale.Number
	d.Details.DocumentDate = sale.Date.Format(dateLayout)
	d.Details.Author = sale.Author
	d.Details.PaymentMethod = sale.PaymentMethod
	d.Recompute()
	return d, nil
}

// List ventas por empresa.
func (uc *SaleUseCase) List(ctx context.Context, companyID string, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	page := dto.NewPage(in.Limit, in.Offset)
	f := repository.SaleFilter{
		Search:   strings.TrimSpace(in.Search),
		ClientID: in.ClientID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	key, err := uc.cache.Key(ctx, companyID, ports.CacheSales, "list",
		f.Search, f.ClientID, strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))
	if err != nil {
		return nil, err
	}
	var out dto.SaleListResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		list, total, err := uc.saleRepo.List(ctx, companyID, f)
		if err != nil {
			return nil, err
		}
		items := make([]dto.SaleResponse, 0, len(list))
		for _, s := range list {
			items = append(items, *toSaleResponse(s, nil))
		}
		return dto.SaleListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina la venta. La factura emitida desde ella se conserva.
func (uc *SaleUseCase) Delete(ctx context.Context, companyID, id string) error {
	if err := uc.saleRepo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	_ = uc.cache.Bump(ctx, companyID, ports.CacheSales)
	_ = uc.cache.Bump(ctx, companyID, ports.CacheDashboard)
	return nil
}

func toSaleResponse(s *entity.Sale, items []*entity.InvoiceItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                    s.ID,
		CompanyID:             s.CompanyID,
		ClientID:              s.ClientID,
		Number:                s.Number,
		Date:                  s.Date.Format(dateLayout),
		Buyer:                 toPartyResponse(s.Buyer),
		Author:                s.Author,
		PaymentMethod:         s.PaymentMethod,
		GlobalDiscountPercent: s.GlobalDiscountPercent,
		VATRate:               s.VATRate,
		Totals:                totalsResponse(s.Subtotal, s.VATTotal, s.GrandTotal),
		InvoiceID:             s.InvoiceID,
		CreatedAt:             s.CreatedAt,
	}
	if items != nil {
		resp.Items = toItemResponses(items)
	}
	return resp
}
