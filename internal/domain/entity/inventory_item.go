package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock de una entrada del ledger (por ubicación).
const (
	ItemStatusInStock    = "in_stock"
	ItemStatusLowStock   = "low_stock"
	ItemStatusOutOfStock = "out_of_stock"
)

// InventoryItem stock de un producto en una ubicación (entrada del ledger).
// QuantityLeft nunca es negativo; Status se recalcula después de cada mutación.
type InventoryItem struct {
	ID           string
	ProductID    string
	LocationID   string
	QuantityLeft int64
	ReorderPoint int64
	UnitCost     decimal.Decimal
	SellingPrice decimal.Decimal
	Status       string
	UpdatedAt    time.Time
}
