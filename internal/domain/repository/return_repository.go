package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// ReturnRepository puerto de devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	GetByID(ctx context.Context, id string) (*entity.Return, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Return, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Return, error)
	Delete(ctx context.Context, id string) error
}
