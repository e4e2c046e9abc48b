// Package memory is an in-process implementation of store.Store. Data lives
// for the lifetime of the Store value.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
)

// Store keeps every entity in maps guarded by one mutex.
type Store struct {
	mu           sync.RWMutex
	nextID       int64
	categories   map[int64]models.Category
	accounts     map[int64]models.Account
	transactions map[int64]models.Transaction
	plannings    map[int64]models.MonthlyPlanning
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		categories:   map[int64]models.Category{},
		accounts:     map[int64]models.Account{},
		transactions: map[int64]models.Transaction{},
		plannings:    map[int64]models.MonthlyPlanning{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) FindCategoryByName(_ context.Context, userID int64, name string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.UserID == userID && c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, store.ErrNotFound
}

func (s *Store) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	if err := store.ValidateCategory(c); err != nil {
		return models.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, userID int64) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindAccountByName(_ context.Context, userID int64, name string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.Name == name {
			return a, nil
		}
	}
	return models.Account{}, store.ErrNotFound
}

func (s *Store) CreateAccount(_ context.Context, a models.Account) (models.Account, error) {
	if err := store.ValidateAccount(a); err != nil {
		return models.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context, userID int64) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveTransaction inserts tx when its ID is zero and replaces the stored
// transaction otherwise.
func (s *Store) SaveTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := store.ValidateTransaction(tx); err != nil {
		return models.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = s.id()
	} else if old, ok := s.transactions[tx.ID]; !ok || old.UserID != tx.UserID {
		return models.Transaction{}, store.ErrNotFound
	}
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, userID int64) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SavePlanning inserts p when its ID is zero and replaces the stored plan
// otherwise.
func (s *Store) SavePlanning(_ context.Context, p models.MonthlyPlanning) (models.MonthlyPlanning, error) {
	if err := store.ValidatePlanning(p); err != nil {
		return models.MonthlyPlanning{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	} else if old, ok := s.plannings[p.ID]; !ok || old.UserID != p.UserID {
		return models.MonthlyPlanning{}, store.ErrNotFound
	}
	s.plannings[p.ID] = p
	return p, nil
}

func (s *Store) ListPlannings(_ context.Context, userID int64) ([]models.MonthlyPlanning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MonthlyPlanning
	for _, p := range s.plannings {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
