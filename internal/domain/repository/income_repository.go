package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// IncomeRepository asientos de ingreso (inmutables).
type IncomeRepository interface {
	Create(ctx context.Context, income *entity.Income) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.Income, error)
}

// AccountCodeRepository tabla de códigos contables por categoría.
type AccountCodeRepository interface {
	GetByCategory(ctx context.Context, category string) (*entity.AccountCode, error)
}
