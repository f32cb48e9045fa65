package billing_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/fakturi-api/internal/application/auth"
	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memInvoices struct {
	mu       sync.Mutex
	byID     map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	onCreate func()
}

func newMemInvoices() *memInvoices {
	return &memInvoices{byID: map[string]*entity.Invoice{}, items: map[string][]*entity.InvoiceItem{}}
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	if m.onCreate != nil {
		m.onCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.CompanyID == inv.CompanyID && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	m.byID[inv.ID] = &cp
	m.items[inv.ID] = items
	return nil
}

func (m *memInvoices) Update(_ context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	m.byID[inv.ID] = &cp
	m.items[inv.ID] = items
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoices) GetByNumber(_ context.Context, companyID, number string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.CompanyID == companyID && inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memInvoices) GetItems(_ context.Context, id string) ([]*entity.InvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memInvoices) List(_ context.Context, companyID string, _ repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range m.byID {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, companyID, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.CompanyID != companyID {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (m *memInvoices) SetDigest(_ context.Context, id, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.byID[id]; ok {
		inv.Digest = digest
	}
	return nil
}

func (m *memInvoices) Delete(_ context.Context, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.items, id)
	return nil
}

func (m *memInvoices) NextNumber(_ context.Context, companyID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inv := range m.byID {
		if inv.CompanyID == companyID {
			n++
		}
	}
	return fmt.Sprintf("%010d", n+1), nil
}

func (m *memInvoices) only() *entity.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		return inv
	}
	return nil
}

type memSales struct {
	mu    sync.Mutex
	byID  map[string]*entity.Sale
	items map[string][]*entity.InvoiceItem
}

func newMemSales() *memSales {
	return &memSales{byID: map[string]*entity.Sale{}, items: map[string][]*entity.InvoiceItem{}}
}

func (m *memSales) Create(_ context.Context, s *entity.Sale, items []*entity.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byID[s.ID] = &cp
	m.items[s.ID] = items
	return nil
}

func (m *memSales) Update(_ context.Context, s *entity.Sale, items []*entity.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byID[s.ID] = &cp
	m.items[s.ID] = items
	return nil
}

func (m *memSales) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSales) GetItems(_ context.Context, id string) ([]*entity.InvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memSales) List(_ context.Context, companyID string, _ repository.SaleFilter) ([]*entity.Sale, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Sale
	for _, s := range m.byID {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *memSales) SetInvoiceID(_ context.Context, saleID, invoiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[saleID]; ok {
		s.InvoiceID = invoiceID
	}
	return nil
}

func (m *memSales) Delete(_ context.Context, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memSales) NextNumber(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("%010d", len(m.byID)+1), nil
}

type memClients struct {
	byID map[string]*entity.Client
}

func (m *memClients) Create(_ context.Context, c *entity.Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) GetByID(_ context.Context, companyID, id string) (*entity.Client, error) {
	c, ok := m.byID[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

func (m *memClients) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Client, error) {
	for _, c := range m.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memClients) List(context.Context, string, repository.ClientFilter) ([]*entity.Client, int, error) {
	return nil, 0, nil
}

func (m *memClients) Update(_ context.Context, c *entity.Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) Delete(_ context.Context, _, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memClients) Count(context.Context, string) (int, error) { return len(m.byID), nil }

type memArticles struct {
	byID map[string]*entity.Article
}

func (m *memArticles) Create(_ context.Context, a *entity.Article) error {
	m.byID[a.ID] = a
	return nil
}

func (m *memArticles) GetByID(_ context.Context, companyID, id string) (*entity.Article, error) {
	a, ok := m.byID[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	return a, nil
}

func (m *memArticles) List(context.Context, string, repository.ArticleFilter) ([]*entity.Article, int, error) {
	return nil, 0, nil
}

func (m *memArticles) Update(_ context.Context, a *entity.Article) error {
	m.byID[a.ID] = a
	return nil
}

func (m *memArticles) Delete(_ context.Context, _, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memArticles) Count(context.Context, string) (int, error) { return len(m.byID), nil }

type memCompanies struct {
	byID map[string]*entity.Company
}

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.byID[id], nil
}

func (m *memCompanies) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	for _, c := range m.byID {
		if c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.byID[c.ID] = c
	return nil
}

// fakeTx ejecuta fn con los mismos repos en memoria (sin rollback).
type fakeTx struct {
	invoices *memInvoices
	sales    *memSales
}

func (f fakeTx) RunBilling(_ context.Context, fn func(repository.InvoiceRepository, repository.SaleRepository) error) error {
	return fn(f.invoices, f.sales)
}

type fakeIdentity struct {
	user    *entity.User
	company *entity.Company
}

func (f fakeIdentity) Identity(context.Context, string) (*auth.Identity, error) {
	return &auth.Identity{User: f.user, Company: f.company}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c001"
	userID    = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c002"
	clientID  = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c003"
	articleID = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c004"
)

var actor = billing.Actor{CompanyID: companyID, UserID: userID}

type fixture struct {
	invoices  *memInvoices
	sales     *memSales
	company   *entity.Company
	invoiceUC *billing.InvoiceUseCase
	saleUC    *billing.SaleUseCase
	draftUC   *billing.DraftUseCase
	store     *billing.SessionStore
}

func newFixture(xml billing.InvoiceXMLBuilder) *fixture {
	company := &entity.Company{
		ID:            companyID,
		Name:          "Фактури ЕООД",
		TaxID:         "987654321",
		VATNumber:     "BG987654321",
		ContactPerson: "Мария Иванова",
		Address:       "София, бул. Витоша 10",
		BankAccount:   "BG80BNBG96611020345678",
	}
	clients := &memClients{byID: map[string]*entity.Client{
		clientID: {
			ID:            clientID,
			CompanyID:     companyID,
			Name:          "Клиент ООД",
			TaxID:         "123456789",
			ContactPerson: "Иван Петров",
			Address:       "Пловдив, ул. Главна 5",
		},
	}}
	articles := &memArticles{byID: map[string]*entity.Article{}}
	companies := &memCompanies{byID: map[string]*entity.Company{companyID: company}}
	invoices := newMemInvoices()
	sales := newMemSales()
	tx := fakeTx{invoices: invoices, sales: sales}
	v := validation.New()

	invoiceUC := billing.NewInvoiceUseCase(tx, invoices, clients, xml, nil, v, billing.Config{})
	saleUC := billing.NewSaleUseCase(tx, sales, clients, companies, invoiceUC, nil, v)
	store := billing.NewSessionStore(0)
	identity := fakeIdentity{
		user:    &entity.User{ID: userID, CompanyID: companyID, FirstName: "Мария", LastName: "Иванова"},
		company: company,
	}
	draftUC := billing.NewDraftUseCase(store, identity, articles, clients, invoiceUC, saleUC, v, logger.Nop())
	return &fixture{
		invoices:  invoices,
		sales:     sales,
		company:   company,
		invoiceUC: invoiceUC,
		saleUC:    saleUC,
		draftUC:   draftUC,
		store:     store,
	}
}
