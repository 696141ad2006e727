package sale

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

// Settlement resultado de la selección del documento de liquidación.
// Kind es entity.DocumentReceipt (pago completo) o entity.DocumentInvoice.
type Settlement struct {
	Kind        string
	AmountPaid  decimal.Decimal
	ChangeGiven decimal.Decimal
}

// SelectDocument elige recibo o factura según lo entregado contra el neto.
// Con pago completo el monto pagado es el neto y el excedente es cambio; con pago parcial
// se registra lo entregado y no hay cambio.
func SelectDocument(net, tendered decimal.Decimal) Settlement {
	if tendered.IsNegative() {
		tendered = decimal.Zero
	}
	if tendered.GreaterThanOrEqual(net) {
		return Settlement{
			Kind:        entity.DocumentReceipt,
			AmountPaid:  net,
			ChangeGiven: tendered.Sub(net),
		}
	}
	return Settlement{
		Kind:        entity.DocumentInvoice,
		AmountPaid:  tendered,
		ChangeGiven: decimal.Zero,
	}
}

// Settled indica pago completo al crear la venta.
func (s Settlement) Settled() bool {
	return s.Kind == entity.DocumentReceipt
}

// SaleStatus estado inicial de la venta.
func (s Settlement) SaleStatus() string {
	if s.Settled() {
		return entity.SaleStatusCompleted
	}
	return entity.SaleStatusPending
}

// LinePaymentStatus estado de pago inicial de cada línea.
func (s Settlement) LinePaymentStatus() string {
	if s.Settled() {
		return entity.LinePaymentPaid
	}
	return entity.LinePaymentPending
}

// DocumentStatus estado inicial del documento.
func (s Settlement) DocumentStatus() string {
	if s.Settled() {
		return entity.DocumentStatusPaid
	}
	return entity.DocumentStatusUnpaid
}

// DocumentPrefix prefijo del consecutivo del documento.
func (s Settlement) DocumentPrefix() string {
	if s.Settled() {
		return "REC"
	}
	return "INV"
}
