package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fraction digits kept for every stored amount.
const MoneyScale int32 = 2

// RoundMoney rounds d to MoneyScale places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// SplitEvenly divides amount into n equal parts rounded to MoneyScale places
// (half away from zero). The parts are not reconciled: n*part may differ from
// amount by up to (n-1) cents. n below 1 is treated as 1.
func SplitEvenly(amount decimal.Decimal, n int) decimal.Decimal {
	if n < 1 {
		n = 1
	}
	return amount.DivRound(decimal.NewFromInt(int64(n)), MoneyScale)
}

// ParseDecimal parses a plain decimal literal ("1500", "-12.5", "1.0E3").
// Thousands separators and currency symbols are not accepted.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", s, err)
	}
	return d, nil
}
