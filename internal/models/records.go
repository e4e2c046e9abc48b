package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is a transaction as read from, or written to, a workbook.
// References are free-text names; they become entity ids only after
// resolution. Zero values mean "absent": empty strings, a zero Date, an empty
// Type, zero installment counters and an invalid NullDecimal.
type TransactionRecord struct {
	Name              string
	Amount            decimal.NullDecimal
	Date              time.Time
	Type              TransactionType
	CategoryRef       string
	OutAccountRef     string
	InAccountRef      string
	InstallmentNumber int
	TotalInstallments int
}

// Valid reports whether the record carries everything needed to persist it:
// a name, an amount and a date. The type may be missing.
func (r TransactionRecord) Valid() bool {
	return r.Name != "" && r.Amount.Valid && !r.Date.IsZero()
}

// PlanningRecord is one budget line of the planning sheet.
type PlanningRecord struct {
	Month           int
	Year            int
	CategoryRef     string
	EstimatedAmount decimal.NullDecimal
}

// Valid reports whether month, year and estimated amount are present.
func (p PlanningRecord) Valid() bool {
	return p.Month > 0 && p.Month <= 12 && p.Year > 0 && p.EstimatedAmount.Valid
}
