package domain

import "github.com/shopspring/decimal"

// MinorUnits converts a decimal order total into the currency's smallest
// unit. The rule is multiply by 100 and round half away from zero; the two
// legacy implementations disagreed (one truncated, one rounded through
// string formatting) and this codebase uses exactly one rule.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
