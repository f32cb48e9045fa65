package repository

import (
	"context"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// ClientFilter búsqueda del listado de clientes (nombre, ЕИК o МОЛ).
type ClientFilter struct {
	Search string
	Limit  int
	Offset int
}

// ClientRepository define el puerto de persistencia para Client.
// GetByID devuelve (nil, nil) si no existe o pertenece a otra empresa.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Client, error)
	GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Client, error)
	List(ctx context.Context, companyID string, f ClientFilter) ([]*entity.Client, int, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, companyID, id string) error
	Count(ctx context.Context, companyID string) (int, error)
}
