package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo log de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append persiste un movimiento.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, inventory_item_id, product_id, location_id, direction, quantity, cost_per_unit, total_cost, reason, reference, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	performedBy := (*string)(nil)
	if m.PerformedBy != "" {
		performedBy = &m.PerformedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.InventoryItemID, m.ProductID, m.LocationID, m.Direction, m.Quantity,
		m.CostPerUnit, m.TotalCost, m.Reason, m.Reference, performedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

// ListByItem movimientos de una entrada del ledger, más recientes primero.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, inventory_item_id, product_id, location_id, direction, quantity, cost_per_unit, total_cost, reason, reference, performed_by, created_at
		FROM stock_movements WHERE inventory_item_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var performedBy *string
		if err := rows.Scan(&m.ID, &m.InventoryItemID, &m.ProductID, &m.LocationID, &m.Direction, &m.Quantity,
			&m.CostPerUnit, &m.TotalCost, &m.Reason, &m.Reference, &performedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if performedBy != nil {
			m.PerformedBy = *performedBy
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
