package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento manual de inventario.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
	MovementTypeTRANSFER   = "TRANSFER"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN/OUT/ADJUSTMENT usan LocationID; TRANSFER usa FromLocationID y ToLocationID.
// En ADJUSTMENT la cantidad con signo indica entrada (+) o salida (-).
type RegisterMovementRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	LocationID     string           `json:"location_id,omitempty"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Type           string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity       int64            `json:"quantity" validate:"required,ne=0"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason         string           `json:"reason,omitempty" validate:"max=100"`
}

// InventoryItemResponse estado de una entrada del ledger.
type InventoryItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	QuantityLeft int64           `json:"quantity_left"`
	ReorderPoint int64           `json:"reorder_point"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Status       string          `json:"status"`
}

// RegisterMovementResponse resultado de un movimiento manual.
type RegisterMovementResponse struct {
	TransactionID   string                  `json:"transaction_id"`
	ProductQuantity int64                   `json:"product_quantity"`
	Items           []InventoryItemResponse `json:"items"`
}

// StockMovementResponse un registro del log de movimientos.
type StockMovementResponse struct {
	ID              string          `json:"id"`
	InventoryItemID string          `json:"inventory_item_id"`
	ProductID       string          `json:"product_id"`
	LocationID      string          `json:"location_id"`
	Direction       string          `json:"direction"`
	Quantity        int64           `json:"quantity"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Reason          string          `json:"reason"`
	Reference       string          `json:"reference"`
	PerformedBy     string          `json:"performed_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockMovementListResponse listado paginado de movimientos de un ítem.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
