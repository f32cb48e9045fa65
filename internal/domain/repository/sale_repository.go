package repository

import (
	"context"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	Search   string
	ClientID string
	Limit    int
	Offset   int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale, items []*entity.InvoiceItem) error
	Update(ctx context.Context, sale *entity.Sale, items []*entity.InvoiceItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, companyID string, f SaleFilter) ([]*entity.Sale, int, error)
	SetInvoiceID(ctx context.Context, saleID, invoiceID string) error
	Delete(ctx context.Context, companyID, id string) error
	NextNumber(ctx context.Context, companyID string) (string, error)
}
