package ports

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// Operaciones autorizables del núcleo.
const (
	OpSaleCreate       = "sale.create"
	OpSaleRead         = "sale.read"
	OpSaleUpdateStatus = "sale.update_status"
	OpReturnCreate     = "return.create"
	OpReturnDelete     = "return.delete"
	OpInventoryMove    = "inventory.move"
	OpInventoryRead    = "inventory.read"
)

// Actor quien ejecuta la operación (viene del token).
type Actor struct {
	UserID string
	ShopID string
	Role   string
}

// Authorizer responde "¿puede este actor ejecutar esta operación sobre esta tienda?".
// El núcleo lo consulta antes de abrir la transacción; la lógica vive fuera.
type Authorizer interface {
	Authorize(ctx context.Context, actor Actor, operation, shopID string) error
}

// AllowAll autoriza todo (tests y herramientas internas).
type AllowAll struct{}

// Authorize implementa Authorizer.
func (AllowAll) Authorize(context.Context, Actor, string, string) error { return nil }

// RolePolicy autoriza por rol y exige que el actor pertenezca a la tienda.
type RolePolicy map[string][]string

// DefaultRolePolicy política por defecto de la tienda.
func DefaultRolePolicy() RolePolicy {
	return RolePolicy{
		OpSaleCreate:       {entity.RoleAdmin, entity.RoleCajero},
		OpSaleRead:         {entity.RoleAdmin, entity.RoleCajero, entity.RoleBodeguero},
		OpSaleUpdateStatus: {entity.RoleAdmin, entity.RoleCajero, entity.RoleBodeguero},
		OpReturnCreate:     {entity.RoleAdmin, entity.RoleCajero},
		OpReturnDelete:     {entity.RoleAdmin},
		OpInventoryMove:    {entity.RoleAdmin, entity.RoleBodeguero},
		OpInventoryRead:    {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleCajero},
	}
}

// Authorize implementa Authorizer.
func (p RolePolicy) Authorize(_ context.Context, actor Actor, operation, shopID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if shopID != "" && actor.ShopID != shopID {
		return domain.ErrForbidden
	}
	for _, role := range p[operation] {
		if role == actor.Role {
			return nil
		}
	}
	return domain.ErrForbidden
}
