package sale

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain"
)

// MoneyScale decimales de todos los montos; coincide con NUMERIC(18,2) en la base.
const MoneyScale int32 = 2

// ValidMoney el monto no tiene más decimales de los que se persisten.
func ValidMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// CheckMoney InvalidAmount si field tiene más de MoneyScale decimales.
func CheckMoney(field string, d decimal.Decimal) error {
	if !ValidMoney(d) {
		return domain.InvalidAmount(field + " con más de 2 decimales")
	}
	return nil
}
