package store

import (
	"context"
	"sync"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
)

// MockStore wraps a Store for tests: it counts calls and fails the operations
// whose error field is set.
type MockStore struct {
	Store

	FindCategoryError    error
	CreateCategoryError  error
	FindAccountError     error
	CreateAccountError   error
	SaveTransactionError error
	SavePlanningError    error

	// SaveTransactionFailAfter makes SaveTransaction fail with
	// SaveTransactionError only once this many saves have succeeded.
	SaveTransactionFailAfter int

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockStore) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[op]++
	return m.calls[op]
}

// Calls returns how many times op was invoked, for instance "CreateCategory".
func (m *MockStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockStore) FindCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error) {
	m.count("FindCategoryByName")
	if m.FindCategoryError != nil {
		return models.Category{}, m.FindCategoryError
	}
	return m.Store.FindCategoryByName(ctx, userID, name)
}

func (m *MockStore) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	m.count("CreateCategory")
	if m.CreateCategoryError != nil {
		return models.Category{}, m.CreateCategoryError
	}
	return m.Store.CreateCategory(ctx, c)
}

func (m *MockStore) FindAccountByName(ctx context.Context, userID int64, name string) (models.Account, error) {
	m.count("FindAccountByName")
	if m.FindAccountError != nil {
		return models.Account{}, m.FindAccountError
	}
	return m.Store.FindAccountByName(ctx, userID, name)
}

func (m *MockStore) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	m.count("CreateAccount")
	if m.CreateAccountError != nil {
		return models.Account{}, m.CreateAccountError
	}
	return m.Store.CreateAccount(ctx, a)
}

func (m *MockStore) SaveTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	n := m.count("SaveTransaction")
	if m.SaveTransactionError != nil && n > m.SaveTransactionFailAfter {
		return models.Transaction{}, m.SaveTransactionError
	}
	return m.Store.SaveTransaction(ctx, tx)
}

func (m *MockStore) SavePlanning(ctx context.Context, p models.MonthlyPlanning) (models.MonthlyPlanning, error) {
	m.count("SavePlanning")
	if m.SavePlanningError != nil {
		return models.MonthlyPlanning{}, m.SavePlanningError
	}
	return m.Store.SavePlanning(ctx, p)
}
