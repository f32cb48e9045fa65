package repository

import (
	"context"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// ArticleFilter búsqueda por nombre y estado.
type ArticleFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

// ArticleRepository define el puerto de persistencia para Article (DIP).
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Article, error)
	List(ctx context.Context, companyID string, f ArticleFilter) ([]*entity.Article, int, error)
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, companyID, id string) error
	Count(ctx context.Context, companyID string) (int, error)
}
