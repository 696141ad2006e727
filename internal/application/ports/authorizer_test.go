package ports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

func TestRolePolicy(t *testing.T) {
	policy := ports.DefaultRolePolicy()
	ctx := context.Background()
	cajero := ports.Actor{UserID: "u1", ShopID: "shop-1", Role: entity.RoleCajero}

	assert.NoError(t, policy.Authorize(ctx, cajero, ports.OpSaleCreate, "shop-1"))
	assert.ErrorIs(t, policy.Authorize(ctx, cajero, ports.OpReturnDelete, "shop-1"), domain.ErrForbidden)
	assert.ErrorIs(t, policy.Authorize(ctx, cajero, ports.OpSaleCreate, "shop-2"), domain.ErrForbidden)
	assert.ErrorIs(t, policy.Authorize(ctx, ports.Actor{}, ports.OpSaleCreate, "shop-1"), domain.ErrUnauthorized)
	assert.ErrorIs(t, policy.Authorize(ctx, cajero, "desconocida", "shop-1"), domain.ErrForbidden)
}

func TestAllowAll(t *testing.T) {
	assert.NoError(t, ports.AllowAll{}.Authorize(context.Background(), ports.Actor{}, ports.OpReturnDelete, "x"))
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "ok", ports.OutcomeLabel(nil))
	assert.Equal(t, "insufficient_stock", ports.OutcomeLabel(domain.InsufficientStock("p1")))
	assert.Equal(t, "persistence_failure", ports.OutcomeLabel(domain.PersistenceFailure(context.Canceled)))
	assert.Equal(t, "error", ports.OutcomeLabel(assert.AnError))
}
