package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	OrderLineID string `json:"order_line_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// ReturnResponse devolución registrada.
type ReturnResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	OrderLineID string          `json:"order_line_id"`
	Quantity    int64           `json:"quantity"`
	Reason      string          `json:"reason"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
