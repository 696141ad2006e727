package repository

import (
	"context"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// DocumentRepository documentos de liquidación (recibo/factura).
// Create devuelve domain.ErrDocumentConflict si la venta ya tiene documento.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.SettlementDocument) error
	GetBySale(ctx context.Context, saleID string) (*entity.SettlementDocument, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
