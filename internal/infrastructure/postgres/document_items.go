package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// Líneas de facturas y ventas comparten tabla (document_items.document_id).

func insertItems(ctx context.Context, q Querier, documentID string, items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO document_items (id, document_id, position, article_id, description, quantity, unit_price, discount_percent, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, documentID, it.Position, nullIfEmpty(it.ArticleID), it.Description,
			it.Quantity, it.UnitPrice, it.DiscountPercent, it.Total,
		)
	}
	for _, it := range items {
		it.DocumentID = documentID
	}
	return sendBatch(ctx, q, batch)
}

// sendBatch envía el lote si el Querier lo soporta (pool y tx); si no, ejecuta una a una.
func sendBatch(ctx context.Context, q Querier, batch *pgx.Batch) error {
	type batcher interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	}
	if b, ok := q.(batcher); ok {
		br := b.SendBatch(ctx, batch)
		for range batch.QueuedQueries {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert items: %w", err)
			}
		}
		return br.Close()
	}
	for _, qq := range batch.QueuedQueries {
		if _, err := q.Exec(ctx, qq.SQL, qq.Arguments...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}
	return nil
}

func replaceItems(ctx context.Context, q Querier, documentID string, items []*entity.InvoiceItem) error {
	if _, err := q.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return insertItems(ctx, q, documentID, items)
}

func loadItems(ctx context.Context, q Querier, documentID string) ([]*entity.InvoiceItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, document_id, position, article_id, description, quantity, unit_price, discount_percent, total
		FROM document_items WHERE document_id = $1 ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var articleID *string
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.Position, &articleID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.Total); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.ArticleID = derefString(articleID)
		items = append(items, &it)
	}
	return items, rows.Err()
}

func deleteItems(ctx context.Context, q Querier, documentID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// nextNumber siguiente correlativo de 10 dígitos a partir del mayor número numérico de la tabla.
func nextNumber(ctx context.Context, q Querier, table, companyID string) (string, error) {
	var last int64
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(number::BIGINT), 0) FROM %s
		WHERE company_id = $1 AND number ~ '^[0-9]{1,18}$'`, table)
	if err := q.QueryRow(ctx, query, companyID).Scan(&last); err != nil {
		return "", fmt.Errorf("next number %s: %w", table, err)
	}
	return fmt.Sprintf("%010d", last+1), nil
}
