package postgres_test

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-core/internal/application/dto"
	"github.com/jhoicas/tienda-core/internal/application/inventory"
	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/application/sales"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/infrastructure/catalog"
	"github.com/jhoicas/tienda-core/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-core/pkg/config"
)

// Estas pruebas necesitan un PostgreSQL real; sin TIENDA_TEST_DATABASE_URL se omiten.
// Cada una trabaja en un esquema propio que se elimina al terminar.
const testDatabaseURLEnv = "TIENDA_TEST_DATABASE_URL"

type testDB struct {
	pool    *pgxpool.Pool
	catalog *catalog.Catalog
}

// openTestDB crea el esquema, aplica la migración y carga un producto con 4 unidades
// (punto de reorden 2) en la ubicación principal.
func openTestDB(t *testing.T) *testDB {
	t.Helper()
	raw := strings.TrimSpace(os.Getenv(testDatabaseURLEnv))
	if raw == "" {
		t.Skipf("%s no definido", testDatabaseURLEnv)
	}
	ctx := context.Background()

	admin, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: raw, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := "tienda_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE") })

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: u.String(), MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migration, err := os.ReadFile("../../../migrations/0001_sales_core.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err)

	cat, err := catalog.Build([][]string{
		{"sku", "nombre", "precio_compra", "precio_venta", "punto_reorden", "cantidad"},
		{"ARZ-1", "Arroz 1 kg", "6", "10", "2", "4"},
	}, uuid.NewString())
	require.NoError(t, err)
	var seed bytes.Buffer
	require.NoError(t, catalog.WriteSQL(&seed, cat))
	_, err = pool.Exec(ctx, seed.String())
	require.NoError(t, err)

	return &testDB{pool: pool, catalog: cat}
}

func (db *testDB) quantities(t *testing.T) (itemQty, productQty int64) {
	t.Helper()
	ctx := context.Background()
	p := db.catalog.Products[0]
	it, err := postgres.NewInventoryItemRepository(db.pool).GetByProductAndLocation(ctx, p.ID, db.catalog.Location.ID)
	require.NoError(t, err)
	require.NotNil(t, it)
	prod, err := postgres.NewProductRepository(db.pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, prod)
	return it.QuantityLeft, prod.Quantity
}

// El UPDATE condicional es la última barrera: la segunda transacción espera el bloqueo de
// fila, reevalúa quantity_left >= 3 tras el commit de la primera y no actualiza nada.
func TestDecrement_ConcurrenteNoSobrevende(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	productID, locationID := db.catalog.Products[0].ID, db.catalog.Location.ID

	tx1, err := db.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx1.Rollback(ctx) }()
	tx2, err := db.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx2.Rollback(ctx) }()

	first, err := postgres.NewInventoryItemRepository(tx1).Decrement(ctx, productID, locationID, 3)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.QuantityLeft)

	type result struct {
		item *entity.InventoryItem
		err  error
	}
	done := make(chan result, 1)
	go func() {
		it, err := postgres.NewInventoryItemRepository(tx2).Decrement(ctx, productID, locationID, 3)
		done <- result{it, err}
	}()

	require.NoError(t, tx1.Commit(ctx))
	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Nil(t, r.item, "la segunda reserva no debe pasar")
	case <-time.After(10 * time.Second):
		t.Fatal("la segunda transacción no terminó")
	}
	require.NoError(t, tx2.Commit(ctx))

	itemQty, _ := db.quantities(t)
	assert.Equal(t, int64(1), itemQty)
}

func TestCreateSale_ConcurrentePostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runner := postgres.NewTxRunner(db.pool, config.SalesConfig{TxTimeout: 10 * time.Second, TxIsolation: "read_committed"})
	ledger := inventory.NewLedger(inventory.NewCatalogCache(nil))
	coord := sales.NewCoordinator(runner, postgres.Repositories(db.pool), postgres.Registry(db.pool), ledger, ports.AllowAll{})

	actor := ports.Actor{UserID: uuid.NewString(), ShopID: db.catalog.ShopID, Role: entity.RoleCajero}
	productID := db.catalog.Products[0].ID

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = coord.CreateSale(ctx, actor, dto.CreateSaleRequest{
				Lines:          []dto.SaleLineRequest{{ProductID: &productID, Quantity: 3}},
				PaymentMethod:  "cash",
				AmountTendered: decimal.NewFromInt(100),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
			assert.Equal(t, productID, domain.EntityID(err))
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	itemQty, productQty := db.quantities(t)
	assert.Equal(t, int64(1), itemQty)
	assert.Equal(t, int64(1), productQty)

	var salesCount, movements int
	require.NoError(t, db.pool.QueryRow(ctx, "SELECT count(*) FROM sales").Scan(&salesCount))
	require.NoError(t, db.pool.QueryRow(ctx, "SELECT count(*) FROM stock_movements").Scan(&movements))
	assert.Equal(t, 1, salesCount)
	assert.Equal(t, 1, movements)
}
