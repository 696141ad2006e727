package entity

import "github.com/shopspring/decimal"

// Estados de pago de una línea.
const (
	LinePaymentPending  = "pending"
	LinePaymentPaid     = "paid"
	LinePaymentRefunded = "refunded"
)

// OrderLine es un ítem dentro de una venta. Pertenece exclusivamente a su Sale.
// ProductID nil indica un ítem libre (sin producto de catálogo, sin movimiento de stock).
// Quantity solo disminuye (por devoluciones).
type OrderLine struct {
	ID              string
	SaleID          string
	ProductID       *string
	InventoryItemID *string
	LocationID      *string
	ProductName     string
	Quantity        int64
	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal // precio de compra al momento de la venta
	PaymentStatus   string
}

// Subtotal cantidad × precio unitario.
func (l *OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// IsCatalog indica si la línea referencia un producto del catálogo.
func (l *OrderLine) IsCatalog() bool {
	return l.ProductID != nil && *l.ProductID != ""
}
