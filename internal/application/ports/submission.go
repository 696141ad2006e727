package ports

import "context"

// SubmissionGuard garantiza que un mismo envío (cabecera Idempotency-Key) cree como mucho una venta.
// fn devuelve el id de la venta creada; si la clave ya se usó, Do devuelve ese id con replayed=true
// sin ejecutar fn. Un envío concurrente con la misma clave recibe domain.ErrDuplicateSubmission.
type SubmissionGuard interface {
	Do(ctx context.Context, shopID, key string, fn func(ctx context.Context) (string, error)) (saleID string, replayed bool, err error)
}
