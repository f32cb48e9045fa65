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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, company_id, name, tax_id, vat_number, contact_person, address, email, phone, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.VATNumber, &c.ContactPerson,
		&c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, c.TaxID, c.VATNumber, c.ContactPerson,
		c.Address, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente de la empresa.
func (r *ClientRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByCompanyAndTaxID obtiene un cliente por empresa y ЕИК.
func (r *ClientRepo) GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND tax_id = $2`, companyID, taxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by tax_id: %w", err)
	}
	return c, nil
}

// List busca por nombre, ЕИК o МОЛ y devuelve la página junto con el total.
func (r *ClientRepo) List(ctx context.Context, companyID string, f repository.ClientFilter) ([]*entity.Client, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	where := `company_id = $1`
	args := []any{companyID}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		where += ` AND (name ILIKE $2 OR tax_id ILIKE $2 OR contact_person ILIKE $2)`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		clientColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Client, 0, limit)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza un cliente de la empresa.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $3, tax_id = $4, vat_number = $5, contact_person = $6, address = $7,
		    email = $8, phone = $9, updated_at = $10
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		c.CompanyID, c.ID, c.Name, c.TaxID, c.VATNumber, c.ContactPerson, c.Address,
		c.Email, c.Phone, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Los documentos guardan su copia del comprador.
func (r *ClientRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clients WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count clientes de la empresa.
func (r *ClientRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}
