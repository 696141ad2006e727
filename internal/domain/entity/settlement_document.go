package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de liquidación.
const (
	DocumentReceipt = "receipt"
	DocumentInvoice = "invoice"
)

// Estados del documento.
const (
	DocumentStatusPaid   = "paid"
	DocumentStatusUnpaid = "unpaid"
)

// SettlementDocument recibo (pago completo) o factura (pendiente/parcial) de una venta.
// Una venta tiene exactamente uno; el tipo nunca cambia.
type SettlementDocument struct {
	ID            string
	SaleID        string
	Kind          string
	Number        string
	Status        string
	Amount        decimal.Decimal
	CustomerName  string
	CustomerPhone string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
