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

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

const returnColumns = `id, sale_id, order_line_id, quantity, reason, description, amount, status,
	line_status_before, sale_status_before, created_by, created_at`

// ReturnRepo devoluciones sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

func scanReturn(row scanner) (*entity.Return, error) {
	var rt entity.Return
	if err := row.Scan(&rt.ID, &rt.SaleID, &rt.OrderLineID, &rt.Quantity, &rt.Reason, &rt.Description, &rt.Amount,
		&rt.Status, &rt.LineStatusBefore, &rt.SaleStatusBefore, &rt.CreatedBy, &rt.CreatedAt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// Create inserta la devolución.
func (r *ReturnRepo) Create(ctx context.Context, rt *entity.Return) error {
	query := `INSERT INTO returns (` + returnColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, rt.ID, rt.SaleID, rt.OrderLineID, rt.Quantity, rt.Reason, rt.Description, rt.Amount,
		rt.Status, rt.LineStatusBefore, rt.SaleStatusBefore, rt.CreatedBy, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

func (r *ReturnRepo) get(ctx context.Context, op, query, id string) (*entity.Return, error) {
	rt, err := scanReturn(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rt, nil
}

// GetByID obtiene una devolución por ID.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.Return, error) {
	return r.get(ctx, "get return", `SELECT `+returnColumns+` FROM returns WHERE id = $1`, id)
}

// GetForUpdate obtiene la devolución y la bloquea.
func (r *ReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.Return, error) {
	return r.get(ctx, "get return for update", `SELECT `+returnColumns+` FROM returns WHERE id = $1 FOR UPDATE`, id)
}

// ListBySale devoluciones de una venta, más antiguas primero.
func (r *ReturnRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Return, error) {
	rows, err := r.q.Query(ctx, `SELECT `+returnColumns+` FROM returns WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var out []*entity.Return
	for rows.Next() {
		rt, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Delete elimina la devolución.
func (r *ReturnRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM returns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete return: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
