package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo recibos y facturas. La restricción UNIQUE (sale_id) garantiza un documento por venta.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create inserta el documento; si la venta ya tiene uno devuelve DocumentConflict.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.SettlementDocument) error {
	query := `
		INSERT INTO settlement_documents (id, sale_id, kind, number, status, amount, customer_name, customer_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, d.ID, d.SaleID, d.Kind, d.Number, d.Status, d.Amount,
		d.CustomerName, d.CustomerPhone, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.DocumentConflict(d.SaleID)
		}
		return fmt.Errorf("insert settlement document: %w", err)
	}
	return nil
}

// GetBySale documento de la venta; nil si aún no existe.
func (r *DocumentRepo) GetBySale(ctx context.Context, saleID string) (*entity.SettlementDocument, error) {
	var d entity.SettlementDocument
	err := r.q.QueryRow(ctx, `
		SELECT id, sale_id, kind, number, status, amount, customer_name, customer_phone, created_at, updated_at
		FROM settlement_documents WHERE sale_id = $1`, saleID).Scan(
		&d.ID, &d.SaleID, &d.Kind, &d.Number, &d.Status, &d.Amount, &d.CustomerName, &d.CustomerPhone, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement document: %w", err)
	}
	return &d, nil
}

// UpdateStatus cambia el estado de pago del documento.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE settlement_documents SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update settlement document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
