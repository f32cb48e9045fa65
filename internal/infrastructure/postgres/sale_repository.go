package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, client_id, number, date, buyer, author, payment_method,
	global_discount_percent, vat_rate, subtotal, vat_total, grand_total, invoice_id,
	created_by, created_at, updated_at`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var clientID, invoiceID, createdBy *string
	err := row.Scan(
		&s.ID, &s.CompanyID, &clientID, &s.Number, &s.Date, &s.Buyer, &s.Author, &s.PaymentMethod,
		&s.GlobalDiscountPercent, &s.VATRate, &s.Subtotal, &s.VATTotal, &s.GrandTotal, &invoiceID,
		&createdBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ClientID = derefString(clientID)
	s.InvoiceID = derefString(invoiceID)
	s.CreatedBy = derefString(createdBy)
	return &s, nil
}

// Create persiste cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale, items []*entity.InvoiceItem) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, nullIfEmpty(s.ClientID), s.Number, s.Date, s.Buyer, s.Author, s.PaymentMethod,
		s.GlobalDiscountPercent, s.VATRate, s.Subtotal, s.VATTotal, s.GrandTotal, nullIfEmpty(s.InvoiceID),
		nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return insertItems(ctx, r.q, s.ID, items)
}

// Update reemplaza cabecera y líneas.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale, items []*entity.InvoiceItem) error {
	query := `
		UPDATE sales
		SET client_id = $3, date = $4, buyer = $5, author = $6, payment_method = $7,
		    global_discount_percent = $8, vat_rate = $9, subtotal = $10, vat_total = $11,
		    grand_total = $12, updated_at = $13
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		s.CompanyID, s.ID, nullIfEmpty(s.ClientID), s.Date, s.Buyer, s.Author, s.PaymentMethod,
		s.GlobalDiscountPercent, s.VATRate, s.Subtotal, s.VATTotal, s.GrandTotal, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return replaceItems(ctx, r.q, s.ID, items)
}

// GetByID venta de la empresa; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems líneas en orden de captura.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.InvoiceItem, error) {
	return loadItems(ctx, r.q, saleID)
}

// List filtra por número o comprador y por cliente.
func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		conds = append(conds, fmt.Sprintf("(number ILIKE $%[1]d OR buyer->>'name' ILIKE $%[1]d)", len(args)))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d`,
		saleColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0, limit)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// SetInvoiceID enlaza la factura emitida desde la venta.
func (r *SaleRepo) SetInvoiceID(ctx context.Context, saleID, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE sales SET invoice_id = $2, updated_at = now() WHERE id = $1`,
		saleID, nullIfEmpty(invoiceID)); err != nil {
		return fmt.Errorf("set sale invoice: %w", err)
	}
	return nil
}

// Delete elimina la venta y sus líneas. La factura emitida, si la hay, se conserva.
func (r *SaleRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return deleteItems(ctx, r.q, id)
}

// NextNumber siguiente número de venta de la empresa.
func (r *SaleRepo) NextNumber(ctx context.Context, companyID string) (string, error) {
	return nextNumber(ctx, r.q, "sales", companyID)
}
