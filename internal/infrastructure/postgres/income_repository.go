package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var (
	_ repository.IncomeRepository      = (*IncomeRepo)(nil)
	_ repository.AccountCodeRepository = (*AccountCodeRepo)(nil)
)

// IncomeRepo ingresos contables por venta.
type IncomeRepo struct {
	q Querier
}

// NewIncomeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncomeRepository(q Querier) *IncomeRepo {
	return &IncomeRepo{q: q}
}

// Create inserta el ingreso.
func (r *IncomeRepo) Create(ctx context.Context, in *entity.Income) error {
	query := `
		INSERT INTO incomes (id, sale_id, shop_id, amount, category, account_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, in.ID, in.SaleID, in.ShopID, in.Amount, in.Category, in.AccountCode, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

// ListBySale ingresos registrados para una venta.
func (r *IncomeRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Income, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, shop_id, amount, category, account_code, created_at
		FROM incomes WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()
	var out []*entity.Income
	for rows.Next() {
		var in entity.Income
		if err := rows.Scan(&in.ID, &in.SaleID, &in.ShopID, &in.Amount, &in.Category, &in.AccountCode, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, &in)
	}
	return out, rows.Err()
}

// AccountCodeRepo catálogo de cuentas contables (solo lectura).
type AccountCodeRepo struct {
	q Querier
}

// NewAccountCodeRepository construye el adaptador.
func NewAccountCodeRepository(q Querier) *AccountCodeRepo {
	return &AccountCodeRepo{q: q}
}

// GetByCategory cuenta asociada a una categoría de ingreso; nil si no está configurada.
func (r *AccountCodeRepo) GetByCategory(ctx context.Context, category string) (*entity.AccountCode, error) {
	var ac entity.AccountCode
	err := r.q.QueryRow(ctx, `SELECT category, code, description FROM account_codes WHERE category = $1`, category).
		Scan(&ac.Category, &ac.Code, &ac.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account code: %w", err)
	}
	return &ac, nil
}
