package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// ProductRepository puerto del agregado de catálogo.
// La cantidad y el estado solo se escriben con UpdateStock (caché de catálogo).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStock(ctx context.Context, id string, quantity int64, status string) error
	UpdateCost(ctx context.Context, id string, purchasePrice decimal.Decimal) error
}
