package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de stock.
const (
	MovementInbound  = "inbound"
	MovementOutbound = "outbound"
	MovementTransfer = "transfer"
)

// Motivos estándar de movimiento.
const (
	ReasonSale           = "sale"
	ReasonReturn         = "return"
	ReasonReturnReversal = "return_reversal"
	ReasonReceipt        = "receipt"
	ReasonAdjustment     = "adjustment"
	ReasonTransfer       = "transfer"
)

// StockMovement registro de auditoría inmutable de un cambio de cantidad.
// Quantity siempre es positivo; Direction indica el sentido.
type StockMovement struct {
	ID              string
	InventoryItemID string
	ProductID       string
	LocationID      string
	Direction       string
	Quantity        int64
	CostPerUnit     decimal.Decimal
	TotalCost       decimal.Decimal
	Reason          string
	Reference       string // id de venta, devolución o transacción de inventario
	PerformedBy     string
	CreatedAt       time.Time
}
