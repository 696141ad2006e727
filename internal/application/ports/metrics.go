package ports

import (
	"errors"
	"time"

	"github.com/jhoicas/tienda-core/internal/domain"
)

// Metrics registra el resultado y la duración de las operaciones del núcleo.
type Metrics interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

// NopMetrics descarta todo.
type NopMetrics struct{}

// ObserveOperation implementa Metrics.
func (NopMetrics) ObserveOperation(string, string, time.Duration) {}

var outcomes = []struct {
	kind  error
	label string
}{
	{domain.ErrInsufficientStock, "insufficient_stock"},
	{domain.ErrProductNotFound, "product_not_found"},
	{domain.ErrInvalidAmount, "invalid_amount"},
	{domain.ErrOverReturn, "over_return"},
	{domain.ErrDocumentConflict, "document_conflict"},
	{domain.ErrInvalidStatusTransition, "invalid_transition"},
	{domain.ErrPersistenceFailure, "persistence_failure"},
	{domain.ErrDuplicateSubmission, "duplicate_submission"},
	{domain.ErrInvalidInput, "invalid_input"},
	{domain.ErrNotFound, "not_found"},
	{domain.ErrUnauthorized, "unauthorized"},
	{domain.ErrForbidden, "forbidden"},
}

// OutcomeLabel etiqueta de métricas para el resultado de una operación.
func OutcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.kind) {
			return o.label
		}
	}
	return "error"
}
