package sale

import "github.com/jhoicas/tienda-core/internal/domain/entity"

// Dimensiones de actualización de estado.
const (
	DimensionPayment  = "payment"
	DimensionDelivery = "delivery"
)

// Valores del eje de pago.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

var deliveryRank = map[string]int{
	entity.DeliveryStatusPending:   0,
	entity.DeliveryStatusShipped:   1,
	entity.DeliveryStatusDelivered: 2,
}

// CanAdvanceDelivery la entrega solo avanza (pending -> shipped -> delivered) y no cambia
// en ventas anuladas.
func CanAdvanceDelivery(saleStatus, from, to string) bool {
	if saleStatus == entity.SaleStatusCancelled {
		return false
	}
	f, okFrom := deliveryRank[from]
	t, okTo := deliveryRank[to]
	return okFrom && okTo && t > f
}

// CanSettlePayment una venta pendiente puede pasar a pagada; nada más.
func CanSettlePayment(saleStatus, to string) bool {
	return saleStatus == entity.SaleStatusPending && to == PaymentPaid
}

// StatusAfterReturn una venta cuyo neto llega a cero queda anulada; si no, conserva su estado.
func StatusAfterReturn(current string, netIsZero bool) string {
	if netIsZero {
		return entity.SaleStatusCancelled
	}
	return current
}

// LineStatusAfterReturn la línea queda reembolsada cuando no le quedan unidades.
func LineStatusAfterReturn(current string, remaining int64) string {
	if remaining == 0 {
		return entity.LinePaymentRefunded
	}
	return current
}

// StatusAfterReversal estado de la venta al eliminar una devolución. Una venta anulada vuelve
// al estado que tenía antes de la devolución si recupera saldo; en otro caso no cambia
// (el pago pudo avanzar después).
func StatusAfterReversal(current, before string, netIsZero bool) string {
	if current == entity.SaleStatusCancelled && !netIsZero && before != entity.SaleStatusCancelled {
		return before
	}
	return current
}

// LineStatusAfterReversal estado de pago de la línea al eliminar una devolución. Una línea
// reembolsada recupera su estado previo; si era pendiente y la venta ya está completada
// queda pagada.
func LineStatusAfterReversal(current, before, saleStatus string) string {
	if current != entity.LinePaymentRefunded {
		return current
	}
	if before == entity.LinePaymentPending && saleStatus == entity.SaleStatusCompleted {
		return entity.LinePaymentPaid
	}
	return before
}
