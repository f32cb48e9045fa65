package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Search   string // número o nombre del comprador
	ClientID string
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) error
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, companyID, number string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, companyID string, f InvoiceFilter) ([]*entity.Invoice, int, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	SetDigest(ctx context.Context, id, digest string) error
	Delete(ctx context.Context, companyID, id string) error
	// NextNumber siguiente número correlativo de la empresa (10 dígitos con ceros).
	NextNumber(ctx context.Context, companyID string) (string, error)
}
