package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// StockMovementRepository log de movimientos: solo inserción y lectura.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, inventoryItemID string, limit, offset int) ([]*entity.StockMovement, error)
}
