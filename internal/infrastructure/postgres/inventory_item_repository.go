package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, product_id, location_id, quantity_left, reorder_point, unit_cost, selling_price, status, updated_at`

// InventoryItemRepo ledger de stock por producto y ubicación (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func scanItem(row scanner) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.ID, &it.ProductID, &it.LocationID, &it.QuantityLeft, &it.ReorderPoint,
		&it.UnitCost, &it.SellingPrice, &it.Status, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// GetByID obtiene una entrada del ledger por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item",
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetByProductAndLocation obtiene la entrada de un producto en una ubicación.
func (r *InventoryItemRepo) GetByProductAndLocation(ctx context.Context, productID, locationID string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item by location",
		`SELECT `+itemColumns+` FROM inventory_items WHERE product_id = $1 AND location_id = $2`, productID, locationID)
}

// ListByProduct lista las entradas de un producto en todas sus ubicaciones.
func (r *InventoryItemRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE product_id = $1 ORDER BY location_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Create persiste una entrada nueva (producto en una ubicación sin stock previo).
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.ProductID, it.LocationID, it.QuantityLeft, it.ReorderPoint,
		it.UnitCost, it.SellingPrice, it.Status, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// Decrement resta qty en una sola sentencia condicional. La fila queda bloqueada hasta el fin
// de la transacción; un escritor concurrente reevalúa el predicado al obtener el bloqueo.
func (r *InventoryItemRepo) Decrement(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET quantity_left = quantity_left - $3, updated_at = now()
		WHERE product_id = $1 AND location_id = $2 AND quantity_left >= $3
		RETURNING ` + itemColumns
	return r.getOne(ctx, "decrement inventory item", query, productID, locationID, qty)
}

// Increment suma qty a la entrada existente.
func (r *InventoryItemRepo) Increment(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET quantity_left = quantity_left + $3, updated_at = now()
		WHERE product_id = $1 AND location_id = $2
		RETURNING ` + itemColumns
	return r.getOne(ctx, "increment inventory item", query, productID, locationID, qty)
}

// UpdateStatus persiste el estado recalculado.
func (r *InventoryItemRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE inventory_items SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update inventory item status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza el costo promedio de la entrada.
func (r *InventoryItemRepo) UpdateCost(ctx context.Context, id string, unitCost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE inventory_items SET unit_cost = $2, updated_at = now() WHERE id = $1`, id, unitCost)
	if err != nil {
		return fmt.Errorf("update inventory item cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByProduct Σ quantity_left del producto (lo que ve la transacción actual).
func (r *InventoryItemRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_left), 0)::bigint FROM inventory_items WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum inventory items: %w", err)
	}
	return sum, nil
}
