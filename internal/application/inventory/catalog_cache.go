package inventory

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/stock"
	"github.com/jhoicas/tienda-core/pkg/logger"
)

// CatalogCache mantiene Product.Quantity/Status en sincronía con el ledger.
// La cantidad se recalcula como SUM(quantity_left) de los ítems dentro de la misma
// transacción; nunca se fija de forma independiente.
type CatalogCache struct {
	log *logger.Logger
}

// NewCatalogCache construye la caché de catálogo.
func NewCatalogCache(log *logger.Logger) *CatalogCache {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogCache{log: log.Named("catalog_cache")}
}

// Adjust aplica delta al agregado del producto y devuelve la nueva cantidad.
// Debe llamarse justo después de la mutación del ledger, en la misma transacción.
// Cualquier error aborta la transacción del caller.
func (c *CatalogCache) Adjust(ctx context.Context, repos ports.Repositories, productID string, delta int64) (int64, error) {
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ProductNotFound(productID)
	}
	sum, err := repos.Items.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if expected := product.Quantity + delta; sum != expected {
		// El agregado venía desalineado; el valor recalculado prevalece.
		c.log.Warn().
			Str("product_id", productID).
			Int64("previous", product.Quantity).
			Int64("delta", delta).
			Int64("recomputed", sum).
			Msg("desfase entre catálogo y ledger corregido")
	}
	status := stock.ProductStatus(sum, product.ReorderPoint)
	if err := repos.Products.UpdateStock(ctx, productID, sum, status); err != nil {
		return 0, err
	}
	return sum, nil
}
