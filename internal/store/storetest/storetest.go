// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a store returned by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("plannings", func(t *testing.T) { testPlannings(t, newStore(t)) })
	t.Run("validation", func(t *testing.T) { testValidation(t, newStore(t)) })
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.FindCategoryByName(ctx, 1, "Viagem")
	assert.ErrorIs(t, err, store.ErrNotFound)

	created, err := s.CreateCategory(ctx, models.Category{UserID: 1, Name: "Viagem"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := s.FindCategoryByName(ctx, 1, "Viagem")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = s.FindCategoryByName(ctx, 2, "Viagem")
	assert.ErrorIs(t, err, store.ErrNotFound, "categories are scoped by owner")
	_, err = s.FindCategoryByName(ctx, 1, "viagem")
	assert.ErrorIs(t, err, store.ErrNotFound, "names match exactly")

	other, err := s.CreateCategory(ctx, models.Category{UserID: 2, Name: "Viagem"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)

	list, err := s.ListCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{created}, list)
}

func testAccounts(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, models.Account{
		UserID:         7,
		Name:           "Nubank",
		InitialBalance: decimal.Zero,
		CurrentBalance: decimal.RequireFromString("10.50"),
	})
	require.NoError(t, err)

	found, err := s.FindAccountByName(ctx, 7, "Nubank")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, decimal.Zero.Equal(found.InitialBalance))
	assert.True(t, decimal.RequireFromString("10.5").Equal(found.CurrentBalance))

	_, err = s.FindAccountByName(ctx, 8, "Nubank")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListAccounts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nubank", list[0].Name)
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, models.Category{UserID: 1, Name: "Casa"})
	require.NoError(t, err)
	acc, err := s.CreateAccount(ctx, models.Account{UserID: 1, Name: "Corrente"})
	require.NoError(t, err)

	later, err := s.SaveTransaction(ctx, models.Transaction{
		UserID:            1,
		Name:              "Geladeira",
		Amount:            decimal.RequireFromString("1000.00"),
		Date:              dateutils.Date(2024, time.March, 10),
		Type:              models.TransactionTypeExpense,
		CategoryID:        models.IDRef(cat.ID),
		OutAccountID:      models.IDRef(acc.ID),
		InstallmentNumber: 2,
		TotalInstallments: 3,
	})
	require.NoError(t, err)
	assert.NotZero(t, later.ID)

	earlier, err := s.SaveTransaction(ctx, models.Transaction{
		UserID: 1,
		Name:   "Sem tipo",
		Amount: decimal.RequireFromString("-3.5"),
		Date:   dateutils.Date(2024, time.January, 2),
	})
	require.NoError(t, err)

	_, err = s.SaveTransaction(ctx, models.Transaction{
		UserID: 2,
		Name:   "Outro dono",
		Amount: decimal.NewFromInt(1),
		Date:   dateutils.Date(2024, time.January, 1),
	})
	require.NoError(t, err)

	list, err := s.ListTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, earlier.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	got := list[1]
	assert.Equal(t, "Geladeira", got.Name)
	assert.True(t, decimal.RequireFromString("1000").Equal(got.Amount))
	assert.Equal(t, dateutils.Date(2024, time.March, 10), got.Date)
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	require.NotNil(t, got.OutAccountID)
	assert.Equal(t, acc.ID, *got.OutAccountID)
	assert.Nil(t, got.InAccountID)
	assert.Equal(t, 2, got.InstallmentNumber)
	assert.Equal(t, 3, got.TotalInstallments)

	assert.Empty(t, list[0].Type)
	assert.Nil(t, list[0].CategoryID)

	// saving with an id updates in place
	got.Name = "Geladeira nova"
	_, err = s.SaveTransaction(ctx, got)
	require.NoError(t, err)
	list, err = s.ListTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Geladeira nova", list[1].Name)

	got.ID = 9999
	_, err = s.SaveTransaction(ctx, got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testPlannings(t *testing.T, s store.Store) {
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, models.Category{UserID: 1, Name: "Alimentação"})
	require.NoError(t, err)

	for _, p := range []models.MonthlyPlanning{
		{UserID: 1, Month: 2, Year: 2025, EstimatedAmount: decimal.NewFromInt(300)},
		{UserID: 1, Month: 1, Year: 2025, CategoryID: models.IDRef(cat.ID), EstimatedAmount: decimal.RequireFromString("1500.00")},
		{UserID: 1, Month: 12, Year: 2024, EstimatedAmount: decimal.NewFromInt(10)},
	} {
		_, err := s.SavePlanning(ctx, p)
		require.NoError(t, err)
	}

	list, err := s.ListPlannings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-12", list[0].YearMonth())
	assert.Equal(t, "2025-01", list[1].YearMonth())
	assert.Equal(t, "2025-02", list[2].YearMonth())
	require.NotNil(t, list[1].CategoryID)
	assert.Equal(t, cat.ID, *list[1].CategoryID)
	assert.True(t, decimal.NewFromInt(1500).Equal(list[1].EstimatedAmount))

	empty, err := s.ListPlannings(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testValidation(t *testing.T, s store.Store) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "category without owner", call: func() error {
			_, err := s.CreateCategory(ctx, models.Category{Name: "x"})
			return err
		}},
		{name: "blank account name", call: func() error {
			_, err := s.CreateAccount(ctx, models.Account{UserID: 1, Name: "  "})
			return err
		}},
		{name: "transaction with too many installments", call: func() error {
			_, err := s.SaveTransaction(ctx, models.Transaction{
				UserID: 1, Name: "x", Date: dateutils.Date(2024, time.January, 1),
				TotalInstallments: models.MaxInstallments + 1,
			})
			return err
		}},
		{name: "transaction without date", call: func() error {
			_, err := s.SaveTransaction(ctx, models.Transaction{UserID: 1, Name: "x"})
			return err
		}},
		{name: "transaction with unknown type", call: func() error {
			_, err := s.SaveTransaction(ctx, models.Transaction{
				UserID: 1, Name: "x", Date: dateutils.Date(2024, 1, 1), Type: "REFUND",
			})
			return err
		}},
		{name: "planning month out of range", call: func() error {
			_, err := s.SavePlanning(ctx, models.MonthlyPlanning{UserID: 1, Month: 13, Year: 2024})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var vErr *parsererror.ValidationError
			assert.True(t, errors.As(err, &vErr), "got %v", err)
		})
	}
}
