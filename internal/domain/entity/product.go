package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Niveles de stock agregados del producto (toda la tienda).
const (
	ProductStatusHigh       = "high_stock"
	ProductStatusMedium     = "medium_stock"
	ProductStatusLow        = "low_stock"
	ProductStatusOutOfStock = "out_of_stock"
)

// Product vista agregada de catálogo.
// Quantity es la suma materializada de QuantityLeft de sus InventoryItems; solo la escribe
// la caché de catálogo dentro de la misma transacción que muta el ledger.
type Product struct {
	ID            string
	ShopID        string
	SKU           string
	Name          string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	ReorderPoint  int64
	Quantity      int64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
