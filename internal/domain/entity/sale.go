package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una venta.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Estados de entrega (eje independiente del ciclo de vida).
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
)

// Sale representa una transacción comercial (POS o pedido de back-office).
// Registro financiero: nunca se elimina. Tiene exactamente uno de ReceiptID o InvoiceID.
type Sale struct {
	ID             string
	ShopID         string
	CustomerID     *string // nil = cliente de mostrador
	Status         string
	DeliveryStatus string
	PaymentMethod  string
	NetAmount      decimal.Decimal
	Discount       decimal.Decimal
	DeliveryFee    decimal.Decimal
	AmountPaid     decimal.Decimal
	ChangeGiven    decimal.Decimal
	Profit         decimal.Decimal
	SalesPersonID  string
	ReceiptID      *string
	InvoiceID      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DocumentID devuelve el id del documento de liquidación enlazado, si existe.
func (s *Sale) DocumentID() string {
	switch {
	case s.ReceiptID != nil:
		return *s.ReceiptID
	case s.InvoiceID != nil:
		return *s.InvoiceID
	}
	return ""
}
