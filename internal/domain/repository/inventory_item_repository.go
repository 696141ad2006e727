package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// InventoryItemRepository puerto del ledger de stock por producto+ubicación.
// Decrement e Increment son escrituras condicionales de una sola sentencia: leen y modifican
// la fila bajo su bloqueo, sin lectura previa separada.
type InventoryItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByProductAndLocation(ctx context.Context, productID, locationID string) (*entity.InventoryItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryItem, error)
	Create(ctx context.Context, item *entity.InventoryItem) error
	// Decrement resta qty solo si quantity_left >= qty. Devuelve (nil, nil) si ninguna fila cumplió.
	Decrement(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error)
	// Increment suma qty. Devuelve (nil, nil) si no existe la entrada.
	Increment(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateCost(ctx context.Context, id string, unitCost decimal.Decimal) error
	SumByProduct(ctx context.Context, productID string) (int64, error)
}
