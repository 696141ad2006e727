package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito. Sin ProductID es un ítem libre (nombre y precio
// obligatorios). Sin UnitPrice una línea de catálogo toma el precio de venta del producto;
// un 0 explícito se respeta. Sin LocationID se usa la ubicación por defecto de la tienda.
type SaleLineRequest struct {
	ProductID  *string          `json:"product_id,omitempty"`
	LocationID *string          `json:"location_id,omitempty"`
	Name       string           `json:"name" validate:"required_without=ProductID,max=200"`
	Quantity   int64            `json:"quantity" validate:"required,gt=0"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty" validate:"required_without=ProductID"`
}

// CreateSaleRequest body para POST /api/sales. CustomerID vacío equivale a venta de mostrador.
type CreateSaleRequest struct {
	CustomerID     *string           `json:"customer_id,omitempty"`
	Lines          []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod  string            `json:"payment_method" validate:"required,max=30"`
	AmountTendered decimal.Decimal   `json:"amount_tendered"`
	Discount       decimal.Decimal   `json:"discount"`
	DeliveryFee    decimal.Decimal   `json:"delivery_fee"`
	SalesPersonID  string            `json:"sales_person_id,omitempty"`
}

// UpdateSaleStatusRequest body para PATCH /api/sales/:id/status.
type UpdateSaleStatusRequest struct {
	Dimension string `json:"dimension" validate:"required,oneof=payment delivery"`
	Value     string `json:"value" validate:"required"`
}

// OrderLineResponse línea de una venta.
type OrderLineResponse struct {
	ID            string          `json:"id"`
	ProductID     *string         `json:"product_id,omitempty"`
	LocationID    *string         `json:"location_id,omitempty"`
	ProductName   string          `json:"product_name"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	PaymentStatus string          `json:"payment_status"`
}

// DocumentResponse recibo o factura de la venta.
type DocumentResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
}

// SaleResponse venta completa con líneas, documento y devoluciones.
type SaleResponse struct {
	ID             string              `json:"id"`
	ShopID         string              `json:"shop_id"`
	CustomerID     *string             `json:"customer_id,omitempty"`
	Status         string              `json:"status"`
	DeliveryStatus string              `json:"delivery_status"`
	PaymentMethod  string              `json:"payment_method"`
	NetAmount      decimal.Decimal     `json:"net_amount"`
	Discount       decimal.Decimal     `json:"discount"`
	DeliveryFee    decimal.Decimal     `json:"delivery_fee"`
	AmountPaid     decimal.Decimal     `json:"amount_paid"`
	ChangeGiven    decimal.Decimal     `json:"change_given"`
	Profit         decimal.Decimal     `json:"profit"`
	SalesPersonID  string              `json:"sales_person_id"`
	ReceiptID      *string             `json:"receipt_id,omitempty"`
	InvoiceID      *string             `json:"invoice_id,omitempty"`
	Lines          []OrderLineResponse `json:"lines"`
	Document       *DocumentResponse   `json:"document,omitempty"`
	Returns        []ReturnResponse    `json:"returns"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
