package pricing

import "github.com/shopspring/decimal"

var ten = decimal.NewFromInt(10)

// RoundUpToTen rounds a non-negative currency amount up to the next
// multiple of 10, so externally quoted figures land on round numbers.
// Zero and exact multiples of 10 come back unchanged.
func RoundUpToTen(v decimal.Decimal) decimal.Decimal {
	return v.Div(ten).Ceil().Mul(ten)
}
