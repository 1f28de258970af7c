package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for amounts (NUMERIC(12,2))
const MoneyScale = 2

// maxMoney is the first value that no longer fits NUMERIC(12,2)
var maxMoney = decimal.New(1, 12-MoneyScale)

// validateMoney rejects amounts the money columns cannot hold exactly
func validateMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return NewValidationError(field, "must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxMoney) {
		return NewValidationError(field, "must be less than 10000000000")
	}
	return nil
}
