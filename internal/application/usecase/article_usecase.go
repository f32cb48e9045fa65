package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

// ArticleUseCase casos de uso CRUD para el catálogo de artículos.
type ArticleUseCase struct {
	repo     repository.ArticleRepository
	cache    ports.Cache
	validate *validation.Validator
}

// NewArticleUseCase construye el caso de uso.
func NewArticleUseCase(repo repository.ArticleRepository, cache ports.Cache, v *validation.Validator) *ArticleUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &ArticleUseCase{repo: repo, cache: cache, validate: v}
}

// Create crea un artículo; sin estado queda activo.
func (uc *ArticleUseCase) Create(ctx context.Context, companyID string, in dto.ArticleRequest) (*dto.ArticleResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = entity.ArticleStatusActive
	}
	now := time.Now()
	article := &entity.Article{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Price:     in.Price,
		Unit:      in.Unit,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	uc.bump(ctx, companyID)
	return toArticleResponse(article), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ArticleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	return toArticleResponse(article), nil
}

// Update actualiza un artículo. Los documentos ya emitidos conservan su precio.
func (uc *ArticleUseCase) Update(ctx context.Context, companyID, id string, in dto.ArticleRequest) (*dto.ArticleResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	article, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	article.Name = in.Name
	article.Price = in.Price
	article.Unit = in.Unit
	if in.Status != "" {
		article.Status = in.Status
	}
	article.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	uc.bump(ctx, companyID)
	return toArticleResponse(article), nil
}

// List lista artículos por empresa (búsqueda por nombre, filtro por estado). Alimenta el autocompletado.
func (uc *ArticleUseCase) List(ctx context.Context, companyID string, in dto.ArticleListRequest) (*dto.ArticleListResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	page := dto.NewPage(in.Limit, in.Offset)
	search := strings.TrimSpace(in.Search)
	key, err := uc.cache.Key(ctx, companyID, ports.CacheArticles, "list", search, in.Status, strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))
	if err != nil {
		return nil, err
	}
	var out dto.ArticleListResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		list, total, err := uc.repo.List(ctx, companyID, repository.ArticleFilter{
			Search: search, Status: in.Status, Limit: page.Limit, Offset: page.Offset,
		})
		if err != nil {
			return nil, err
		}
		items := make([]dto.ArticleResponse, 0, len(list))
		for _, a := range list {
			items = append(items, *toArticleResponse(a))
		}
		return dto.ArticleListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un artículo por ID.
func (uc *ArticleUseCase) Delete(ctx context.Context, companyID, id string) error {
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.bump(ctx, companyID)
	return nil
}

func (uc *ArticleUseCase) bump(ctx context.Context, companyID string) {
	_ = uc.cache.Bump(ctx, companyID, ports.CacheArticles)
	_ = uc.cache.Bump(ctx, companyID, ports.CacheDashboard)
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	if a == nil {
		return nil
	}
	return &dto.ArticleResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Name:      a.Name,
		Price:     a.Price,
		Unit:      a.Unit,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
