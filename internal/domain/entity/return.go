package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución.
const (
	ReturnStatusPending   = "pending"
	ReturnStatusCompleted = "completed"
)

// Return registro compensatorio sobre una línea de venta.
// Amount es el reembolso exacto aplicado al NetAmount de la venta; LineStatusBefore y
// SaleStatusBefore permiten que su eliminación sea la inversa exacta.
type Return struct {
	ID               string
	SaleID           string
	OrderLineID      string
	Quantity         int64
	Reason           string
	Description      string
	Amount           decimal.Decimal
	Status           string
	LineStatusBefore string
	SaleStatusBefore string
	CreatedBy        string
	CreatedAt        time.Time
}
