package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var (
	_ repository.SaleRepository      = (*SaleRepo)(nil)
	_ repository.OrderLineRepository = (*OrderLineRepo)(nil)
)

const saleColumns = `id, shop_id, customer_id, status, delivery_status, payment_method, net_amount, discount, delivery_fee,
	amount_paid, change_given, profit, sales_person_id, receipt_id, invoice_id, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ShopID, s.CustomerID, s.Status, s.DeliveryStatus, s.PaymentMethod, s.NetAmount, s.Discount, s.DeliveryFee,
		s.AmountPaid, s.ChangeGiven, s.Profit, s.SalesPersonID, s.ReceiptID, s.InvoiceID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, op, query, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ShopID, &s.CustomerID, &s.Status, &s.DeliveryStatus, &s.PaymentMethod, &s.NetAmount, &s.Discount, &s.DeliveryFee,
		&s.AmountPaid, &s.ChangeGiven, &s.Profit, &s.SalesPersonID, &s.ReceiptID, &s.InvoiceID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, "get sale", `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea la fila hasta el fin de la transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, "get sale for update", `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste los campos mutables de la venta.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET status = $2, delivery_status = $3, net_amount = $4, amount_paid = $5, change_given = $6,
			profit = $7, receipt_id = $8, invoice_id = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Status, s.DeliveryStatus, s.NetAmount, s.AmountPaid, s.ChangeGiven,
		s.Profit, s.ReceiptID, s.InvoiceID, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const lineColumns = `id, sale_id, product_id, inventory_item_id, location_id, product_name, quantity, unit_price, unit_cost, payment_status`

// OrderLineRepo líneas de venta sobre PostgreSQL.
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

func scanLine(row scanner) (*entity.OrderLine, error) {
	var l entity.OrderLine
	if err := row.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.InventoryItemID, &l.LocationID, &l.ProductName,
		&l.Quantity, &l.UnitPrice, &l.UnitCost, &l.PaymentStatus); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta una línea.
func (r *OrderLineRepo) Create(ctx context.Context, l *entity.OrderLine) error {
	query := `INSERT INTO order_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, l.ID, l.SaleID, l.ProductID, l.InventoryItemID, l.LocationID, l.ProductName,
		l.Quantity, l.UnitPrice, l.UnitCost, l.PaymentStatus)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (r *OrderLineRepo) get(ctx context.Context, op, query, id string) (*entity.OrderLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// GetByID obtiene una línea por ID.
func (r *OrderLineRepo) GetByID(ctx context.Context, id string) (*entity.OrderLine, error) {
	return r.get(ctx, "get order line", `SELECT `+lineColumns+` FROM order_lines WHERE id = $1`, id)
}

// GetForUpdate obtiene la línea y la bloquea.
func (r *OrderLineRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrderLine, error) {
	return r.get(ctx, "get order line for update", `SELECT `+lineColumns+` FROM order_lines WHERE id = $1 FOR UPDATE`, id)
}

// ListBySale líneas de una venta en orden de inserción.
func (r *OrderLineRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lineColumns+` FROM order_lines WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.OrderLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persiste cantidad y estado de pago.
func (r *OrderLineRepo) Update(ctx context.Context, l *entity.OrderLine) error {
	cmd, err := r.q.Exec(ctx, `UPDATE order_lines SET quantity = $2, payment_status = $3 WHERE id = $1`,
		l.ID, l.Quantity, l.PaymentStatus)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
