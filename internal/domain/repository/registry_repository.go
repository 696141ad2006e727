package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// LocationRepository registro de ubicaciones de una tienda (colaborador externo).
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetDefault(ctx context.Context, shopID string) (*entity.Location, error)
}

// CustomerRepository directorio de clientes (colaborador externo).
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
