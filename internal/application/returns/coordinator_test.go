package returns_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/returns"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/infrastructure/memory"
)

const (
	shopID = "shop-1"
	locID  = "loc-1"
	prodID = "prod-1"
)

var (
	admin  = ports.Actor{UserID: "user-1", ShopID: shopID, Role: entity.RoleAdmin}
	cajero = ports.Actor{UserID: "user-2", ShopID: shopID, Role: entity.RoleCajero}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(s string) *decimal.Decimal { d := dec(s); return &d }

func str(s string) *string { return &s }

type env struct {
	store   *memory.Store
	sales   *sales.Coordinator
	returns *returns.Coordinator
}

func newEnv(t *testing.T, qty int64) *env {
	t.Helper()
	store := memory.NewStore()
	store.Load(memory.Seed{
		Locations: []*entity.Location{{ID: locID, ShopID: shopID, Name: "Principal", IsDefault: true}},
		Products: []*entity.Product{
			{ID: prodID, ShopID: shopID, Name: "Café", PurchasePrice: dec("4"), SellingPrice: dec("10"), ReorderPoint: 2},
		},
		Items: []*entity.InventoryItem{
			{ID: "item-1", ProductID: prodID, LocationID: locID, QuantityLeft: qty, ReorderPoint: 2, UnitCost: dec("4"), SellingPrice: dec("10")},
		},
	})
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	policy := ports.DefaultRolePolicy()
	return &env{
		store:   store,
		sales:   sales.NewCoordinator(store, store.Repositories(), store.Registry(), ledger, policy),
		returns: returns.NewCoordinator(store, store.Repositories(), ledger, policy),
	}
}

func (e *env) sell(t *testing.T, qty int64, extra ...dto.SaleLineRequest) *dto.SaleResponse {
	t.Helper()
	lines := append([]dto.SaleLineRequest{{ProductID: str(prodID), Quantity: qty}}, extra...)
	resp, err := e.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		Lines:          lines,
		PaymentMethod:  "cash",
		AmountTendered: dec("1000"),
	})
	require.NoError(t, err)
	return resp
}

func (e *env) stock(t *testing.T) int64 {
	t.Helper()
	it, err := e.store.Repositories().Items.GetByProductAndLocation(context.Background(), prodID, locID)
	require.NoError(t, err)
	p, err := e.store.Repositories().Products.GetByID(context.Background(), prodID)
	require.NoError(t, err)
	assert.Equal(t, it.QuantityLeft, p.Quantity)
	return it.QuantityLeft
}

func (e *env) details(t *testing.T, saleID string) *dto.SaleResponse {
	t.Helper()
	d, err := e.sales.GetSaleDetails(context.Background(), admin, saleID)
	require.NoError(t, err)
	return d
}

func TestCreateReturn_NoRecortaLaCantidad(t *testing.T) {
	e := newEnv(t, 10)
	sale := e.sell(t, 2)
	before := e.store.Counts()

	_, err := e.returns.CreateReturn(context.Background(), admin, dto.CreateReturnRequest{
		OrderLineID: sale.Lines[0].ID,
		Quantity:    3,
		Reason:      "error",
	})
	require.ErrorIs(t, err, domain.ErrOverReturn)
	assert.Equal(t, sale.Lines[0].ID, domain.EntityID(err))
	assert.Equal(t, before, e.store.Counts())
	assert.Equal(t, int64(8), e.stock(t))
	assert.Equal(t, int64(2), e.details(t, sale.ID).Lines[0].Quantity)
}

func TestCreateReturn_AcumulaHastaLoVendido(t *testing.T) {
	e := newEnv(t, 10)
	sale := e.sell(t, 4)
	ctx := context.Background()
	lineID := sale.Lines[0].ID

	_, err := e.returns.CreateReturn(ctx, cajero, dto.CreateReturnRequest{OrderLineID: lineID, Quantity: 3, Reason: "talla"})
	require.NoError(t, err)
	_, err = e.returns.CreateReturn(ctx, cajero, dto.CreateReturnRequest{OrderLineID: lineID, Quantity: 2, Reason: "talla"})
	assert.ErrorIs(t, err, domain.ErrOverReturn)

	ret, err := e.returns.CreateReturn(ctx, cajero, dto.CreateReturnRequest{OrderLineID: lineID, Quantity: 1, Reason: "talla"})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusCompleted, ret.Status)
	assert.Equal(t, cajero.UserID, ret.CreatedBy)

	d := e.details(t, sale.ID)
	assert.True(t, d.NetAmount.IsZero())
	assert.Equal(t, entity.SaleStatusCancelled, d.Status)
	assert.Equal(t, entity.LinePaymentRefunded, d.Lines[0].PaymentStatus)
	assert.Equal(t, int64(10), e.stock(t))
}

func TestCreateReturn_ItemLibreNoMueveStock(t *testing.T) {
	e := newEnv(t, 10)
	sale := e.sell(t, 1, dto.SaleLineRequest{Name: "Domicilio especial", Quantity: 2, UnitPrice: price("5")})
	movements := e.store.Counts().Movements

	ret, err := e.returns.CreateReturn(context.Background(), admin, dto.CreateReturnRequest{
		OrderLineID: sale.Lines[1].ID,
		Quantity:    1,
		Reason:      "no aplica",
	})
	require.NoError(t, err)
	assert.True(t, ret.Amount.Equal(dec("5")))
	assert.Equal(t, movements, e.store.Counts().Movements)
	assert.True(t, e.details(t, sale.ID).NetAmount.Equal(dec("15")))
}

// Con descuento el reembolso se acota al neto restante: una devolución parcial puede dejar la
// venta en 0 y anulada aunque otras líneas conserven unidades pagadas.
func TestCreateReturn_DescuentoAcotaAlNetoYAnula(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	sale, err := e.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: str(prodID), Quantity: 1},
			{Name: "Bolsa", Quantity: 2, UnitPrice: price("4")},
		},
		PaymentMethod:  "cash",
		AmountTendered: dec("3"),
		Discount:       dec("15"),
	})
	require.NoError(t, err)
	require.True(t, sale.NetAmount.Equal(dec("3")), sale.NetAmount.String())

	ret, err := e.returns.CreateReturn(ctx, admin, dto.CreateReturnRequest{
		OrderLineID: sale.Lines[0].ID,
		Quantity:    1,
		Reason:      "cambio de opinión",
	})
	require.NoError(t, err)
	// 1 × 10 acotado a los 3 que quedaban
	assert.True(t, ret.Amount.Equal(dec("3")), ret.Amount.String())

	d := e.details(t, sale.ID)
	assert.True(t, d.NetAmount.IsZero())
	assert.Equal(t, entity.SaleStatusCancelled, d.Status)
	assert.Equal(t, entity.LinePaymentRefunded, d.Lines[0].PaymentStatus)
	assert.Equal(t, int64(2), d.Lines[1].Quantity)
	assert.Equal(t, entity.LinePaymentPaid, d.Lines[1].PaymentStatus)
	assert.Equal(t, int64(10), e.stock(t))
}

func TestDeleteReturn_InversaExacta(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	sale := e.sell(t, 3)

	ret, err := e.returns.CreateReturn(ctx, admin, dto.CreateReturnRequest{OrderLineID: sale.Lines[0].ID, Quantity: 1, Reason: "roto"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), e.stock(t))
	assert.True(t, e.details(t, sale.ID).NetAmount.Equal(dec("20")))

	require.NoError(t, e.returns.DeleteReturn(ctx, admin, ret.ID))

	d := e.details(t, sale.ID)
	assert.Equal(t, int64(7), e.stock(t))
	assert.True(t, d.NetAmount.Equal(sale.NetAmount))
	assert.Equal(t, sale.Status, d.Status)
	assert.Equal(t, int64(3), d.Lines[0].Quantity)
	assert.Equal(t, entity.LinePaymentPaid, d.Lines[0].PaymentStatus)
	assert.Empty(t, d.Returns)
	// salida de la venta, entrada de la devolución, salida de la reversa
	assert.Equal(t, 3, e.store.Counts().Movements)

	err = e.returns.DeleteReturn(ctx, admin, ret.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteReturn_ReabreVentaAnulada(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	sale := e.sell(t, 2)

	ret, err := e.returns.CreateReturn(ctx, admin, dto.CreateReturnRequest{OrderLineID: sale.Lines[0].ID, Quantity: 2, Reason: "desiste"})
	require.NoError(t, err)
	require.Equal(t, entity.SaleStatusCancelled, e.details(t, sale.ID).Status)

	require.NoError(t, e.returns.DeleteReturn(ctx, admin, ret.ID))
	d := e.details(t, sale.ID)
	assert.Equal(t, entity.SaleStatusCompleted, d.Status)
	assert.True(t, d.NetAmount.Equal(dec("20")))
	assert.Equal(t, entity.LinePaymentPaid, d.Lines[0].PaymentStatus)
}

func TestDeleteReturn_SinStockRevierteTodo(t *testing.T) {
	e := newEnv(t, 5)
	ctx := context.Background()
	first := e.sell(t, 5)

	ret, err := e.returns.CreateReturn(ctx, admin, dto.CreateReturnRequest{OrderLineID: first.Lines[0].ID, Quantity: 2, Reason: "sobrante"})
	require.NoError(t, err)
	e.sell(t, 2)
	require.Equal(t, int64(0), e.stock(t))
	before := e.store.Counts()

	err = e.returns.DeleteReturn(ctx, admin, ret.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, prodID, domain.EntityID(err))

	assert.Equal(t, before, e.store.Counts())
	d := e.details(t, first.ID)
	assert.Len(t, d.Returns, 1)
	assert.True(t, d.NetAmount.Equal(dec("30")))
	assert.Equal(t, int64(3), d.Lines[0].Quantity)
}

func TestDeleteReturn_RequiereAdmin(t *testing.T) {
	e := newEnv(t, 5)
	ctx := context.Background()
	sale := e.sell(t, 1)
	ret, err := e.returns.CreateReturn(ctx, cajero, dto.CreateReturnRequest{OrderLineID: sale.Lines[0].ID, Quantity: 1, Reason: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.returns.DeleteReturn(ctx, cajero, ret.ID), domain.ErrForbidden)

	other := ports.Actor{UserID: "user-9", ShopID: "shop-2", Role: entity.RoleAdmin}
	assert.ErrorIs(t, e.returns.DeleteReturn(ctx, other, ret.ID), domain.ErrNotFound)
}
