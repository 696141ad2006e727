package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/pkg/config"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool      *pgxpool.Pool
	isolation pgx.TxIsoLevel
	timeout   time.Duration
}

// NewTxRunner construye el runner con el pool, el nivel de aislamiento y el límite de duración.
func NewTxRunner(pool *pgxpool.Pool, cfg config.SalesConfig) *TxRunner {
	return &TxRunner{
		pool:      pool,
		isolation: isolationLevel(cfg.TxIsolation),
		timeout:   cfg.TxTimeout,
	}
}

func isolationLevel(name string) pgx.TxIsoLevel {
	switch name {
	case "serializable":
		return pgx.Serializable
	case "repeatable_read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallos de begin/commit, serialización, deadlock o timeout se devuelven como PersistenceFailure.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isolation})
	if err != nil {
		return domain.PersistenceFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Repositories(tx)); err != nil {
		if isRetryable(err) || errors.Is(err, context.DeadlineExceeded) {
			return domain.PersistenceFailure(err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.PersistenceFailure(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Repositories arma el juego de repositorios sobre q (pool para lecturas, tx dentro de Run).
func Repositories(q Querier) ports.Repositories {
	return ports.Repositories{
		Items:     NewInventoryItemRepository(q),
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Sales:     NewSaleRepository(q),
		Lines:     NewOrderLineRepository(q),
		Returns:   NewReturnRepository(q),
		Incomes:   NewIncomeRepository(q),
		Documents: NewDocumentRepository(q),
	}
}

// Registry colaboradores externos leídos desde el pool.
func Registry(q Querier) ports.Registry {
	return ports.Registry{
		Locations:    NewLocationRepository(q),
		Customers:    NewCustomerRepository(q),
		AccountCodes: NewAccountCodeRepository(q),
	}
}
