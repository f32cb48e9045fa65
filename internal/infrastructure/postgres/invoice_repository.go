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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, client_id, sale_id, number, date, due_date, payment_method, deal_location,
	author, currency, seller, buyer, vat_rate, subtotal, vat_total, grand_total, status, digest,
	created_by, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var clientID, saleID, createdBy *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &clientID, &saleID, &inv.Number, &inv.Date, &inv.DueDate,
		&inv.PaymentMethod, &inv.DealLocation, &inv.Author, &inv.Currency, &inv.Seller, &inv.Buyer,
		&inv.VATRate, &inv.Subtotal, &inv.VATTotal, &inv.GrandTotal, &inv.Status, &inv.Digest,
		&createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ClientID = derefString(clientID)
	inv.SaleID = derefString(saleID)
	inv.CreatedBy = derefString(createdBy)
	return &inv, nil
}

// Create persiste cabecera y líneas. Número repetido en la empresa → domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, nullIfEmpty(inv.ClientID), nullIfEmpty(inv.SaleID), inv.Number,
		inv.Date, inv.DueDate, inv.PaymentMethod, inv.DealLocation, inv.Author, inv.Currency,
		inv.Seller, inv.Buyer, inv.VATRate, inv.Subtotal, inv.VATTotal, inv.GrandTotal,
		inv.Status, inv.Digest, nullIfEmpty(inv.CreatedBy), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return insertItems(ctx, r.q, inv.ID, items)
}

// Update reemplaza cabecera y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	query := `
		UPDATE invoices
		SET client_id = $3, number = $4, date = $5, due_date = $6, payment_method = $7, deal_location = $8,
		    author = $9, currency = $10, seller = $11, buyer = $12, vat_rate = $13, subtotal = $14,
		    vat_total = $15, grand_total = $16, status = $17, digest = $18, updated_at = $19
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.CompanyID, inv.ID, nullIfEmpty(inv.ClientID), inv.Number, inv.Date, inv.DueDate,
		inv.PaymentMethod, inv.DealLocation, inv.Author, inv.Currency, inv.Seller, inv.Buyer,
		inv.VATRate, inv.Subtotal, inv.VATTotal, inv.GrandTotal, inv.Status, inv.Digest, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return replaceItems(ctx, r.q, inv.ID, items)
}

// GetByID factura de la empresa; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByNumber factura por número dentro de la empresa.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, companyID, number string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND number = $2`, companyID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

// GetItems líneas en orden de captura.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	return loadItems(ctx, r.q, invoiceID)
}

// List filtra por texto (número o comprador), cliente, estado y fechas.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		add("(number ILIKE $%[1]d OR buyer->>'name' ILIKE $%[1]d)", likePattern(f.Search))
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0, limit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// UpdateStatus cambia el estado (paid, cancelled...).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDigest guarda el digest del XML canónico.
func (r *InvoiceRepo) SetDigest(ctx context.Context, id, digest string) error {
	if _, err := r.q.Exec(ctx, `UPDATE invoices SET digest = $2 WHERE id = $1`, id, digest); err != nil {
		return fmt.Errorf("set invoice digest: %w", err)
	}
	return nil
}

// Delete elimina la factura y sus líneas; la venta de origen queda sin factura.
func (r *InvoiceRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return deleteItems(ctx, r.q, id)
}

// NextNumber siguiente número de factura de la empresa.
func (r *InvoiceRepo) NextNumber(ctx context.Context, companyID string) (string, error) {
	return nextNumber(ctx, r.q, "invoices", companyID)
}
