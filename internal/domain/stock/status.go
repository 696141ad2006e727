// Package stock contiene las derivaciones puras de estado y costo del inventario.
package stock

import "github.com/jhoicas/tienda-core/internal/domain/entity"

// ItemStatus estado de una entrada del ledger: agotado si qty <= 0, bajo si qty <= punto
// de reorden, en stock en otro caso.
func ItemStatus(qty, reorderPoint int64) string {
	switch {
	case qty <= 0:
		return entity.ItemStatusOutOfStock
	case qty <= reorderPoint:
		return entity.ItemStatusLowStock
	default:
		return entity.ItemStatusInStock
	}
}

// ProductStatus nivel agregado de cuatro tramos: agotado <= 0, bajo <= reorden,
// medio <= 2×reorden, alto en otro caso.
func ProductStatus(qty, reorderPoint int64) string {
	switch {
	case qty <= 0:
		return entity.ProductStatusOutOfStock
	case qty <= reorderPoint:
		return entity.ProductStatusLow
	case qty <= 2*reorderPoint:
		return entity.ProductStatusMedium
	default:
		return entity.ProductStatusHigh
	}
}
