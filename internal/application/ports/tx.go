package ports

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
// Fuera de una transacción (lecturas) se construye sobre el pool.
type Repositories struct {
	Items     repository.InventoryItemRepository
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Sales     repository.SaleRepository
	Lines     repository.OrderLineRepository
	Returns   repository.ReturnRepository
	Incomes   repository.IncomeRepository
	Documents repository.DocumentRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si el Commit falla se devuelve un
// domain.PersistenceFailure. El ctx recibido por fn está acotado por el timeout de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Registry colaboradores externos consultados por el núcleo (solo lectura).
type Registry struct {
	Locations    repository.LocationRepository
	Customers    repository.CustomerRepository
	AccountCodes repository.AccountCodeRepository
}
