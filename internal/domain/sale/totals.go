// Package sale contiene la aritmética monetaria y las máquinas de estado de una venta.
// Todo es puro: sin persistencia ni reloj.
package sale

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain"
)

// LineAmount datos monetarios de una línea para el cálculo de totales.
// PurchasePrice nil indica ítem libre (sin producto de catálogo): no aporta utilidad.
type LineAmount struct {
	Quantity      int64
	UnitPrice     decimal.Decimal
	PurchasePrice *decimal.Decimal
}

// Totals resultado de ComputeTotals.
type Totals struct {
	Gross  decimal.Decimal // Σ cantidad × precio
	Net    decimal.Decimal // Gross − descuento + domicilio
	Profit decimal.Decimal // Σ cantidad × (precio − costo) de líneas de catálogo
}

// ComputeTotals calcula bruto, neto y utilidad. Falla con InvalidAmount si algún monto es
// negativo, tiene más de MoneyScale decimales o si el neto resultante es negativo.
func ComputeTotals(lines []LineAmount, discount, deliveryFee decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.InvalidAmount("descuento negativo")
	}
	if deliveryFee.IsNegative() {
		return Totals{}, domain.InvalidAmount("domicilio negativo")
	}
	if err := CheckMoney("descuento", discount); err != nil {
		return Totals{}, err
	}
	if err := CheckMoney("domicilio", deliveryFee); err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, domain.ErrInvalidInput
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, domain.InvalidAmount("precio unitario negativo")
		}
		if err := CheckMoney("precio unitario", l.UnitPrice); err != nil {
			return Totals{}, err
		}
		qty := decimal.NewFromInt(l.Quantity)
		t.Gross = t.Gross.Add(qty.Mul(l.UnitPrice))
		if l.PurchasePrice != nil {
			t.Profit = t.Profit.Add(qty.Mul(l.UnitPrice.Sub(*l.PurchasePrice)))
		}
	}
	t.Net = t.Gross.Sub(discount).Add(deliveryFee)
	if t.Net.IsNegative() {
		return Totals{}, domain.InvalidAmount("el total neto es negativo")
	}
	return t, nil
}

// RefundAmount reembolso de una devolución: cantidad × precio, acotado al neto restante.
// Si la devolución deja todas las líneas de la venta en cero, reembolsa todo el neto
// restante (incluye el residuo de descuento/domicilio) para que la venta quede en 0.
func RefundAmount(unitPrice decimal.Decimal, quantity int64, remainingNet decimal.Decimal, closesSale bool) decimal.Decimal {
	if closesSale {
		return remainingNet
	}
	amount := unitPrice.Mul(decimal.NewFromInt(quantity))
	if amount.GreaterThan(remainingNet) {
		return remainingNet
	}
	return amount
}
