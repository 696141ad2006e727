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
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// LocationRepo ubicaciones de almacenamiento por tienda.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) get(ctx context.Context, query string, arg string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.ShopID, &l.Name, &l.IsDefault, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// GetByID obtiene una ubicación.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.get(ctx, `SELECT id, shop_id, name, is_default, created_at FROM locations WHERE id = $1`, id)
}

// GetDefault ubicación por defecto de la tienda.
func (r *LocationRepo) GetDefault(ctx context.Context, shopID string) (*entity.Location, error) {
	return r.get(ctx, `
		SELECT id, shop_id, name, is_default, created_at FROM locations
		WHERE shop_id = $1 AND is_default LIMIT 1`, shopID)
}

// CustomerRepo clientes (solo lectura desde el núcleo).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente; nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	var phone *string
	err := r.q.QueryRow(ctx, `SELECT id, shop_id, name, phone, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.ShopID, &c.Name, &phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if phone != nil {
		c.Phone = *phone
	}
	return &c, nil
}
