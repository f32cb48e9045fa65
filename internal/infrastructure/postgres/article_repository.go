package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, company_id, name, price, unit, status, created_at, updated_at`

// ArticleRepo implementación de ArticleRepository (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	if err := row.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Price, &a.Unit, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un artículo.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, a.ID, a.CompanyID, a.Name, a.Price, a.Unit, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo de la empresa.
func (r *ArticleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List filtra por nombre y estado (autocompletado del asistente).
func (r *ArticleRepo) List(ctx context.Context, companyID string, f repository.ArticleFilter) ([]*entity.Article, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := `company_id = $1`
	args := []any{companyID}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		where += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		articleColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// Update actualiza nombre, precio, unidad y estado.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE articles SET name = $3, price = $4, unit = $5, status = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2`,
		a.CompanyID, a.ID, a.Name, a.Price, a.Unit, a.Status, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un artículo. Las líneas ya emitidas conservan descripción y precio.
func (r *ArticleRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM articles WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count artículos de la empresa.
func (r *ArticleRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}
