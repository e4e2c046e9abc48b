// Package store defines the persistence capability the interchange engine
// consumes. Every operation is scoped by the owning user's id, which callers
// pass explicitly.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// CategoryStore persists categories.
type CategoryStore interface {
	// FindCategoryByName returns the user's category with exactly this name,
	// or ErrNotFound.
	FindCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

// AccountStore persists accounts.
type AccountStore interface {
	FindAccountByName(ctx context.Context, userID int64, name string) (models.Account, error)
	CreateAccount(ctx context.Context, a models.Account) (models.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
}

// TransactionStore persists transactions. Listing is ordered by date, then id.
type TransactionStore interface {
	SaveTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
}

// PlanningStore persists monthly plans. Listing is ordered by year, month,
// then id.
type PlanningStore interface {
	SavePlanning(ctx context.Context, p models.MonthlyPlanning) (models.MonthlyPlanning, error)
	ListPlannings(ctx context.Context, userID int64) ([]models.MonthlyPlanning, error)
}

// Store is the full persistence capability.
type Store interface {
	CategoryStore
	AccountStore
	TransactionStore
	PlanningStore
	Close() error
}

// ValidateCategory checks a category before it is created.
func ValidateCategory(c models.Category) error {
	switch {
	case c.UserID == 0:
		return &parsererror.ValidationError{Entity: "category", Reason: "missing owner"}
	case strings.TrimSpace(c.Name) == "":
		return &parsererror.ValidationError{Entity: "category", Reason: "empty name"}
	}
	return nil
}

// ValidateAccount checks an account before it is created.
func ValidateAccount(a models.Account) error {
	switch {
	case a.UserID == 0:
		return &parsererror.ValidationError{Entity: "account", Reason: "missing owner"}
	case strings.TrimSpace(a.Name) == "":
		return &parsererror.ValidationError{Entity: "account", Reason: "empty name"}
	}
	return nil
}

// ValidateTransaction checks a transaction before it is saved. The type may be
// unset but not unknown.
func ValidateTransaction(tx models.Transaction) error {
	switch {
	case tx.UserID == 0:
		return &parsererror.ValidationError{Entity: "transaction", Reason: "missing owner"}
	case strings.TrimSpace(tx.Name) == "":
		return &parsererror.ValidationError{Entity: "transaction", Reason: "empty name"}
	case tx.Date.IsZero():
		return &parsererror.ValidationError{Entity: "transaction", Reason: "missing date"}
	case tx.Type != "" && !tx.Type.Valid():
		return &parsererror.ValidationError{Entity: "transaction", Reason: "unknown type " + string(tx.Type)}
	case tx.TotalInstallments < 0 || tx.TotalInstallments > models.MaxInstallments:
		return &parsererror.ValidationError{Entity: "transaction", Reason: "installment count out of range"}
	}
	return nil
}

// ValidatePlanning checks a monthly plan before it is saved.
func ValidatePlanning(p models.MonthlyPlanning) error {
	switch {
	case p.UserID == 0:
		return &parsererror.ValidationError{Entity: "planning", Reason: "missing owner"}
	case p.Month < 1 || p.Month > 12:
		return &parsererror.ValidationError{Entity: "planning", Reason: "month out of range"}
	case p.Year <= 0:
		return &parsererror.ValidationError{Entity: "planning", Reason: "year must be positive"}
	}
	return nil
}
