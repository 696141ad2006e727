package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/stock"
)

// LedgerInput una mutación del ledger dentro de la transacción del caller.
type LedgerInput struct {
	ProductID  string
	LocationID string
	Quantity   int64  // siempre positivo; la dirección la da la operación
	Reason     string // entity.Reason*
	Reference  string // venta, devolución o transacción de inventario
	ActorID    string
}

// Ledger primitivas de stock por ubicación. Cada mutación:
//  1. bloquea la fila del producto (orden de bloqueo: producto antes que ítem),
//  2. modifica quantity_left con una sola sentencia condicional,
//  3. recalcula el estado del ítem,
//  4. agrega exactamente un StockMovement,
//  5. ajusta la caché de catálogo con el mismo delta.
type Ledger struct {
	cache *CatalogCache
	now   func() time.Time
}

// NewLedger construye el ledger.
func NewLedger(cache *CatalogCache) *Ledger {
	return &Ledger{cache: cache, now: time.Now}
}

// Reserve descuenta stock solo si quantity_left >= cantidad; si no, falla sin efectos.
func (l *Ledger) Reserve(ctx context.Context, repos ports.Repositories, in LedgerInput) (*entity.InventoryItem, error) {
	if in.Quantity <= 0 || in.ProductID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := l.lockProduct(ctx, repos, in.ProductID); err != nil {
		return nil, err
	}
	item, err := repos.Items.Decrement(ctx, in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		existing, err := repos.Items.GetByProductAndLocation(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ProductNotFound(in.ProductID)
		}
		return nil, domain.InsufficientStock(in.ProductID)
	}
	if err := l.record(ctx, repos, item, entity.MovementOutbound, in, item.UnitCost); err != nil {
		return nil, err
	}
	if _, err := l.cache.Adjust(ctx, repos, in.ProductID, -in.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// Restore devuelve stock a la ubicación (devoluciones). No tiene cota superior: quien
// llama valida contra lo vendido.
func (l *Ledger) Restore(ctx context.Context, repos ports.Repositories, in LedgerInput) (*entity.InventoryItem, error) {
	if in.Quantity <= 0 || in.ProductID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := l.lockProduct(ctx, repos, in.ProductID); err != nil {
		return nil, err
	}
	item, err := repos.Items.Increment(ctx, in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ProductNotFound(in.ProductID)
	}
	if err := l.record(ctx, repos, item, entity.MovementInbound, in, item.UnitCost); err != nil {
		return nil, err
	}
	if _, err := l.cache.Adjust(ctx, repos, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// Receive entrada de mercancía con costo: crea la entrada del ledger si no existe y
// actualiza el costo promedio ponderado del ítem y del producto.
func (l *Ledger) Receive(ctx context.Context, repos ports.Repositories, in LedgerInput, unitCost decimal.Decimal) (*entity.InventoryItem, error) {
	if in.Quantity <= 0 || in.ProductID == "" || in.LocationID == "" || unitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ProductNotFound(in.ProductID)
	}
	current, err := l.ensureItem(ctx, repos, product, in.LocationID, decimal.Zero)
	if err != nil {
		return nil, err
	}
	itemCost := stock.CostCalculator(current.QuantityLeft, current.UnitCost, in.Quantity, unitCost)
	productCost := stock.CostCalculator(product.Quantity, product.PurchasePrice, in.Quantity, unitCost)

	item, err := repos.Items.Increment(ctx, in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ProductNotFound(in.ProductID)
	}
	if err := repos.Items.UpdateCost(ctx, item.ID, itemCost); err != nil {
		return nil, err
	}
	item.UnitCost = itemCost
	if err := repos.Products.UpdateCost(ctx, in.ProductID, productCost); err != nil {
		return nil, err
	}
	if err := l.record(ctx, repos, item, entity.MovementInbound, in, unitCost); err != nil {
		return nil, err
	}
	if _, err := l.cache.Adjust(ctx, repos, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// Transfer mueve stock entre dos ubicaciones de la misma tienda: dos mutaciones, dos
// movimientos de tipo transfer; el agregado del producto no cambia.
func (l *Ledger) Transfer(ctx context.Context, repos ports.Repositories, in LedgerInput, toLocationID string) (origin, dest *entity.InventoryItem, err error) {
	if in.Quantity <= 0 || in.ProductID == "" || in.LocationID == "" || toLocationID == "" || in.LocationID == toLocationID {
		return nil, nil, domain.ErrInvalidInput
	}
	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ProductNotFound(in.ProductID)
	}
	origin, err = repos.Items.Decrement(ctx, in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if origin == nil {
		existing, err := repos.Items.GetByProductAndLocation(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			return nil, nil, domain.ProductNotFound(in.ProductID)
		}
		return nil, nil, domain.InsufficientStock(in.ProductID)
	}
	if err := l.record(ctx, repos, origin, entity.MovementTransfer, in, origin.UnitCost); err != nil {
		return nil, nil, err
	}

	if _, err := l.ensureItem(ctx, repos, product, toLocationID, origin.UnitCost); err != nil {
		return nil, nil, err
	}
	dest, err = repos.Items.Increment(ctx, in.ProductID, toLocationID, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if dest == nil {
		return nil, nil, domain.ProductNotFound(in.ProductID)
	}
	destIn := in
	destIn.LocationID = toLocationID
	if err := l.record(ctx, repos, dest, entity.MovementTransfer, destIn, origin.UnitCost); err != nil {
		return nil, nil, err
	}
	if _, err := l.cache.Adjust(ctx, repos, in.ProductID, 0); err != nil {
		return nil, nil, err
	}
	return origin, dest, nil
}

func (l *Ledger) lockProduct(ctx context.Context, repos ports.Repositories, productID string) error {
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ProductNotFound(productID)
	}
	return nil
}

// ensureItem devuelve la entrada del ledger en la ubicación, creándola vacía si no existe.
func (l *Ledger) ensureItem(ctx context.Context, repos ports.Repositories, product *entity.Product, locationID string, unitCost decimal.Decimal) (*entity.InventoryItem, error) {
	item, err := repos.Items.GetByProductAndLocation(ctx, product.ID, locationID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	item = &entity.InventoryItem{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		LocationID:   locationID,
		QuantityLeft: 0,
		ReorderPoint: product.ReorderPoint,
		UnitCost:     unitCost,
		SellingPrice: product.SellingPrice,
		Status:       entity.ItemStatusOutOfStock,
		UpdatedAt:    l.now(),
	}
	if err := repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// record recalcula el estado del ítem y agrega el movimiento correspondiente.
func (l *Ledger) record(ctx context.Context, repos ports.Repositories, item *entity.InventoryItem, direction string, in LedgerInput, cost decimal.Decimal) error {
	status := stock.ItemStatus(item.QuantityLeft, item.ReorderPoint)
	if status != item.Status {
		if err := repos.Items.UpdateStatus(ctx, item.ID, status); err != nil {
			return err
		}
		item.Status = status
	}
	now := l.now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		Direction:       direction,
		Quantity:        in.Quantity,
		CostPerUnit:     cost,
		TotalCost:       cost.Mul(decimal.NewFromInt(in.Quantity)),
		Reason:          in.Reason,
		Reference:       in.Reference,
		PerformedBy:     in.ActorID,
		CreatedAt:       now,
	}
	return repos.Movements.Append(ctx, mov)
}
