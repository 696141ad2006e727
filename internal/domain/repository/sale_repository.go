package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas (nunca se eliminan).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update persiste estados, montos derivados y el documento enlazado.
	Update(ctx context.Context, sale *entity.Sale) error
}

// OrderLineRepository puerto de las líneas de venta.
type OrderLineRepository interface {
	Create(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id string) (*entity.OrderLine, error)
	GetForUpdate(ctx context.Context, id string) (*entity.OrderLine, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.OrderLine, error)
	// Update persiste cantidad y estado de pago.
	Update(ctx context.Context, line *entity.OrderLine) error
}
