package inventory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

const (
	shopID = "shop-1"
	locA   = "loc-a"
	locB   = "loc-b"
	prodID = "prod-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(qty int64) *memory.Store {
	s := memory.NewStore()
	s.Load(memory.Seed{
		Locations: []*entity.Location{
			{ID: locA, ShopID: shopID, IsDefault: true},
			{ID: locB, ShopID: shopID},
			{ID: "loc-ajena", ShopID: "shop-2"},
		},
		Products: []*entity.Product{
			{ID: prodID, ShopID: shopID, Name: "Harina", PurchasePrice: dec("100"), SellingPrice: dec("150"), ReorderPoint: 2},
		},
		Items: []*entity.InventoryItem{
			{ID: "item-a", ProductID: prodID, LocationID: locA, QuantityLeft: qty, ReorderPoint: 2, UnitCost: dec("100"), SellingPrice: dec("150")},
		},
	})
	return s
}

func input(qty int64) inventory.LedgerInput {
	return inventory.LedgerInput{ProductID: prodID, LocationID: locA, Quantity: qty, Reason: entity.ReasonSale, Reference: "ref-1", ActorID: "user-1"}
}

func TestLedger_ReserveYRestore(t *testing.T) {
	store := newStore(5)
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	ctx := context.Background()

	err := store.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := ledger.Reserve(ctx, repos, input(4))
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.QuantityLeft)
		assert.Equal(t, entity.ItemStatusLowStock, item.Status)

		_, err = ledger.Reserve(ctx, repos, input(2))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		item, err = ledger.Restore(ctx, repos, inventory.LedgerInput{ProductID: prodID, LocationID: locA, Quantity: 3, Reason: entity.ReasonReturn})
		require.NoError(t, err)
		assert.Equal(t, int64(4), item.QuantityLeft)
		assert.Equal(t, entity.ItemStatusInStock, item.Status)
		return nil
	})
	require.NoError(t, err)

	reads := store.Repositories()
	p, err := reads.Products.GetByID(ctx, prodID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Quantity)
	assert.Equal(t, entity.ProductStatusMedium, p.Status)

	movs, err := reads.Movements.ListByItem(ctx, "item-a", 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementInbound, movs[0].Direction)
	assert.Equal(t, int64(3), movs[0].Quantity)
	assert.Equal(t, entity.MovementOutbound, movs[1].Direction)
	assert.Equal(t, int64(4), movs[1].Quantity)
	assert.True(t, movs[1].TotalCost.Equal(dec("400")))
	assert.Equal(t, "ref-1", movs[1].Reference)
	assert.Equal(t, "user-1", movs[1].PerformedBy)
}

func TestLedger_SinEntradaEnLaUbicacion(t *testing.T) {
	store := newStore(5)
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))

	err := store.Run(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		in := input(1)
		in.LocationID = locB
		_, err := ledger.Reserve(ctx, repos, in)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, prodID, domain.EntityID(err))

	err = store.Run(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		_, err := ledger.Reserve(ctx, repos, input(0))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogCache_CorrigeDesfase(t *testing.T) {
	store := newStore(5)
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})
	ledger := inventory.NewLedger(inventory.NewCatalogCache(log))
	ctx := context.Background()

	// agregado corrupto fuera del ledger
	require.NoError(t, store.Repositories().Products.UpdateStock(ctx, prodID, 99, entity.ProductStatusHigh))

	err := store.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		_, err := ledger.Reserve(ctx, repos, input(1))
		return err
	})
	require.NoError(t, err)

	p, err := store.Repositories().Products.GetByID(ctx, prodID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Quantity)
	assert.Contains(t, buf.String(), "desfase")
	assert.Contains(t, buf.String(), `"recomputed":4`)
}

func TestLedger_ReceiveCostoPromedio(t *testing.T) {
	store := newStore(10)
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	ctx := context.Background()

	err := store.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		in := input(10)
		in.Reason = entity.ReasonReceipt
		item, err := ledger.Receive(ctx, repos, in, dec("200"))
		require.NoError(t, err)
		assert.Equal(t, int64(20), item.QuantityLeft)
		assert.True(t, item.UnitCost.Equal(dec("150")), item.UnitCost.String())

		// ubicación nueva: se crea la entrada
		in.LocationID = locB
		item, err = ledger.Receive(ctx, repos, in, dec("90"))
		require.NoError(t, err)
		assert.Equal(t, int64(10), item.QuantityLeft)
		assert.True(t, item.UnitCost.Equal(dec("90")))
		return nil
	})
	require.NoError(t, err)

	p, err := store.Repositories().Products.GetByID(ctx, prodID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), p.Quantity)
	// (10×100 + 10×200) / 20 = 150; (20×150 + 10×90) / 30 = 130
	assert.True(t, p.PurchasePrice.Equal(dec("130")), p.PurchasePrice.String())
}

func TestLedger_Transfer(t *testing.T) {
	store := newStore(5)
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	ctx := context.Background()

	err := store.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		in := input(3)
		in.Reason = entity.ReasonTransfer
		origin, dest, err := ledger.Transfer(ctx, repos, in, locB)
		require.NoError(t, err)
		assert.Equal(t, int64(2), origin.QuantityLeft)
		assert.Equal(t, int64(3), dest.QuantityLeft)
		assert.True(t, dest.UnitCost.Equal(dec("100")))

		_, _, err = ledger.Transfer(ctx, repos, in, locB)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		return nil
	})
	require.NoError(t, err)

	reads := store.Repositories()
	p, err := reads.Products.GetByID(ctx, prodID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Quantity)
	assert.Equal(t, 2, store.Counts().Movements)
}
