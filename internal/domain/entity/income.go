package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income asiento de reconocimiento de ingreso de una venta. Inmutable.
type Income struct {
	ID          string
	SaleID      string
	ShopID      string
	Amount      decimal.Decimal
	Category    string
	AccountCode string
	CreatedAt   time.Time
}

// AccountCode mapea una categoría de transacción a su código contable.
type AccountCode struct {
	Category    string
	Code        string
	Description string
}
