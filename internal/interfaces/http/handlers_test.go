package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/returns"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-core/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-core/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/tienda-core/internal/interfaces/http"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(s string) *decimal.Decimal { d := dec(s); return &d }

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newServer tienda con un producto (5 unidades en la ubicación por defecto).
func newServer(t *testing.T, withGuard bool) *testServer {
	t.Helper()
	store := memory.NewStore()
	store.Load(memory.Seed{
		Locations: []*entity.Location{{ID: "loc-1", ShopID: testShopID, Name: "Principal", IsDefault: true}},
		AccountCodes: []*entity.AccountCode{{Category: sales.DefaultIncomeCategory, Code: "4135"}},
		Products: []*entity.Product{
			{ID: "prod-1", ShopID: testShopID, SKU: "P-1", Name: "Café", PurchasePrice: dec("6"), SellingPrice: dec("10"), ReorderPoint: 1},
		},
		Items: []*entity.InventoryItem{
			{ID: "item-1", ProductID: "prod-1", LocationID: "loc-1", QuantityLeft: 5, ReorderPoint: 1, UnitCost: dec("6"), SellingPrice: dec("10")},
		},
	})

	m := metrics.New(nil)
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	policy := ports.DefaultRolePolicy()
	reads := store.Repositories()

	deps := apphttp.RouterDeps{
		Sales:            sales.NewCoordinator(store, reads, store.Registry(), ledger, policy, sales.WithMetrics(m)),
		Returns:          returns.NewCoordinator(store, reads, ledger, policy, returns.WithMetrics(m)),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, reads, store.Registry(), ledger, policy, nil),
		Metrics:          m.Handler(),
		JWTSecret:        testJWTSecret,
		AppName:          "tienda-test",
	}
	if withGuard {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		deps.Guard = redis.NewSubmissionGuard(client, time.Hour, nil)
	}

	app := fiber.New()
	apphttp.Router(app, deps)
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, role string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func saleBody(qty int64) dto.CreateSaleRequest {
	pid := "prod-1"
	return dto.CreateSaleRequest{
		Lines:          []dto.SaleLineRequest{{ProductID: &pid, Quantity: qty, UnitPrice: price("10")}},
		PaymentMethod:  "cash",
		AmountTendered: dec("100"),
	}
}

func TestSales_CrearConsultarYDevolver(t *testing.T) {
	s := newServer(t, false)

	resp, body := s.do(t, http.MethodPost, "/api/sales", "cajero", saleBody(2))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.True(t, sale.NetAmount.Equal(dec("20")))
	require.NotNil(t, sale.Document)
	assert.Equal(t, entity.DocumentReceipt, sale.Document.Kind)
	require.Len(t, sale.Lines, 1)

	resp, body = s.do(t, http.MethodGet, "/api/sales/"+sale.ID, "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodPost, "/api/returns", "cajero", dto.CreateReturnRequest{
		OrderLineID: sale.Lines[0].ID, Quantity: 1, Reason: "defecto",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var ret dto.ReturnResponse
	require.NoError(t, json.Unmarshal(body, &ret))
	assert.True(t, ret.Amount.Equal(dec("10")))

	resp, body = s.do(t, http.MethodPost, "/api/returns", "cajero", dto.CreateReturnRequest{
		OrderLineID: sale.Lines[0].ID, Quantity: 5, Reason: "defecto",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "OVER_RETURN")
	assert.Contains(t, string(body), sale.Lines[0].ID)

	resp, _ = s.do(t, http.MethodDelete, "/api/returns/"+ret.ID, "cajero", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = s.do(t, http.MethodDelete, "/api/returns/"+ret.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	p, err := s.store.Repositories().Products.GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestSales_ErroresMapeados(t *testing.T) {
	s := newServer(t, false)

	resp, body := s.do(t, http.MethodPost, "/api/sales", "cajero", saleBody(9))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, "prod-1", e.EntityID)

	resp, body = s.do(t, http.MethodPost, "/api/sales", "cajero", dto.CreateSaleRequest{PaymentMethod: "cash"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "CreateSaleRequest.Lines")

	bad := saleBody(1)
	bad.Discount = dec("50")
	resp, body = s.do(t, http.MethodPost, "/api/sales", "cajero", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_AMOUNT")

	resp, _ = s.do(t, http.MethodGet, "/api/sales/no-existe", "cajero", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/sales", "", saleBody(1))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSales_PrecioCeroYClienteVacio(t *testing.T) {
	s := newServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/api/sales", "cajero", map[string]any{
		"customer_id":    "",
		"lines":          []any{map[string]any{"product_id": "prod-1", "quantity": 1, "unit_price": 0}},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.True(t, sale.NetAmount.IsZero(), sale.NetAmount.String())
	assert.Nil(t, sale.CustomerID)
	assert.Equal(t, entity.DocumentReceipt, sale.Document.Kind)

	// un ítem libre necesita precio explícito
	resp, raw = s.do(t, http.MethodPost, "/api/sales", "cajero", map[string]any{
		"lines":          []any{map[string]any{"name": "Bolsa", "quantity": 1}},
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "CreateSaleRequest.Lines[0].UnitPrice")
}

func TestSales_UpdateStatus(t *testing.T) {
	s := newServer(t, false)
	body := saleBody(1)
	body.AmountTendered = dec("0")

	resp, raw := s.do(t, http.MethodPost, "/api/sales", "cajero", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.Equal(t, entity.DocumentInvoice, sale.Document.Kind)

	path := "/api/sales/" + sale.ID + "/status"
	resp, raw = s.do(t, http.MethodPatch, path, "cajero", dto.UpdateSaleStatusRequest{Dimension: "delivery", Value: entity.DeliveryStatusDelivered})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodPatch, path, "cajero", dto.UpdateSaleStatusRequest{Dimension: "delivery", Value: entity.DeliveryStatusShipped})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_TRANSITION")

	resp, raw = s.do(t, http.MethodPatch, path, "cajero", dto.UpdateSaleStatusRequest{Dimension: "payment", Value: entity.LinePaymentPaid})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Equal(t, entity.DocumentStatusPaid, sale.Document.Status)

	resp, _ = s.do(t, http.MethodPatch, path, "cajero", dto.UpdateSaleStatusRequest{Dimension: "color", Value: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_IdempotencyKey(t *testing.T) {
	s := newServer(t, true)

	resp, raw := s.do(t, http.MethodPost, "/api/sales", "cajero", saleBody(2), apphttp.IdempotencyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var first dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &first))

	resp, raw = s.do(t, http.MethodPost, "/api/sales", "cajero", saleBody(2), apphttp.IdempotencyHeader, "checkout-1")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	var second dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &second))
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, s.store.Counts().Sales)
	p, err := s.store.Repositories().Products.GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestInventory_MovimientosYAuditoria(t *testing.T) {
	s := newServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero", dto.RegisterMovementRequest{
		ProductID: "prod-1", LocationID: "loc-1", Type: dto.MovementTypeADJUSTMENT, Quantity: -2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var mv dto.RegisterMovementResponse
	require.NoError(t, json.Unmarshal(raw, &mv))
	assert.Equal(t, int64(3), mv.ProductQuantity)

	resp, _ = s.do(t, http.MethodPost, "/api/inventory/movements", "cajero", dto.RegisterMovementRequest{
		ProductID: "prod-1", LocationID: "loc-1", Type: dto.MovementTypeOUT, Quantity: 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = s.do(t, http.MethodGet, "/api/inventory/items/item-1/movements?limit=10", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var list dto.StockMovementListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, entity.MovementOutbound, list.Items[0].Direction)
	assert.Equal(t, 10, list.Page.Limit)

	resp, _ = s.do(t, http.MethodGet, "/api/inventory/items/item-1/movements?limit=500", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthYMetrics(t *testing.T) {
	s := newServer(t, false)
	_, _ = s.do(t, http.MethodPost, "/api/sales", "cajero", saleBody(1))

	resp, raw := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "tienda-test")

	resp, raw = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `tienda_operations_total{operation="create_sale",outcome="ok"} 1`)
}
