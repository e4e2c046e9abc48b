package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups transactions and budget lines. Names are unique per user.
type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// Account is a place money moves out of or into.
type Account struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// Transaction is a persisted transaction owned by a user. Optional references
// are nil when absent.
type Transaction struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"userId"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	Type              TransactionType `json:"transactionType,omitempty"`
	CategoryID        *int64          `json:"categoryId,omitempty"`
	OutAccountID      *int64          `json:"outAccountId,omitempty"`
	InAccountID       *int64          `json:"inAccountId,omitempty"`
	InstallmentNumber int             `json:"installmentNumber,omitempty"`
	TotalInstallments int             `json:"totalInstallments,omitempty"`
}

// MaxInstallments bounds TotalInstallments: thirty years of monthly payments.
const MaxInstallments = 360

// MonthlyPlanning is the expected spending for a category in a given month.
type MonthlyPlanning struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
}

// YearMonth renders the plan period as YYYY-MM.
func (p MonthlyPlanning) YearMonth() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// IDRef returns a pointer to a copy of id, or nil for the zero id.
func IDRef(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
