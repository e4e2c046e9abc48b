// Package resolver maps category and account names found in imported rows to
// the ids of persisted entities, creating entities that do not exist yet.
package resolver

import (
	"context"
	"errors"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/shopspring/decimal"
)

// Resolver performs get-or-create resolution against a store.
type Resolver struct {
	categories store.CategoryStore
	accounts   store.AccountStore
	logger     logging.Logger
}

// New creates a resolver. A nil logger discards output.
func New(categories store.CategoryStore, accounts store.AccountStore, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Resolver{categories: categories, accounts: accounts, logger: logger}
}

// Category returns the id of the user's category called name. The batch cache
// is consulted first, then the store; a missing category is created. An empty
// name resolves to 0.
func (r *Resolver) Category(ctx context.Context, batch *ImportBatch, userID int64, name string) (int64, error) {
	return r.resolve(ctx, batch, KindCategory, userID, name,
		func() (int64, error) {
			c, err := r.categories.FindCategoryByName(ctx, userID, name)
			return c.ID, err
		},
		func() (int64, error) {
			c, err := r.categories.CreateCategory(ctx, models.Category{UserID: userID, Name: name})
			return c.ID, err
		})
}

// Account is Category for accounts. New accounts start with zero initial and
// current balances.
func (r *Resolver) Account(ctx context.Context, batch *ImportBatch, userID int64, name string) (int64, error) {
	return r.resolve(ctx, batch, KindAccount, userID, name,
		func() (int64, error) {
			a, err := r.accounts.FindAccountByName(ctx, userID, name)
			return a.ID, err
		},
		func() (int64, error) {
			a, err := r.accounts.CreateAccount(ctx, models.Account{
				UserID:         userID,
				Name:           name,
				InitialBalance: decimal.Zero,
				CurrentBalance: decimal.Zero,
			})
			return a.ID, err
		})
}

func (r *Resolver) resolve(ctx context.Context, batch *ImportBatch, kind Kind, userID int64, name string,
	find, create func() (int64, error)) (int64, error) {
	if name == "" {
		return 0, nil
	}
	if id, ok := batch.lookup(kind, userID, name); ok {
		return id, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, &parsererror.ResolveError{Kind: string(kind), Name: name, Err: err}
	}

	id, err := find()
	switch {
	case err == nil:
		batch.remember(kind, userID, name, id)
		return id, nil
	case !errors.Is(err, store.ErrNotFound):
		return 0, &parsererror.ResolveError{Kind: string(kind), Name: name, Err: err}
	}

	id, err = create()
	if err != nil {
		return 0, &parsererror.ResolveError{Kind: string(kind), Name: name, Err: err}
	}
	batch.remember(kind, userID, name, id)
	batch.created[kind]++

	r.logger.Info("Created entity for imported reference",
		logging.F(logging.FieldKind, string(kind)),
		logging.F(logging.FieldName, name),
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldBatch, batch.ID.String()))
	return id, nil
}

// ResolveTransaction turns a parsed record into a transaction owned by userID,
// with its category and account names replaced by entity ids. The amount is
// rounded to cents.
func (r *Resolver) ResolveTransaction(ctx context.Context, rec models.TransactionRecord, batch *ImportBatch, userID int64) (models.Transaction, error) {
	category, err := r.Category(ctx, batch, userID, rec.CategoryRef)
	if err != nil {
		return models.Transaction{}, err
	}
	out, err := r.Account(ctx, batch, userID, rec.OutAccountRef)
	if err != nil {
		return models.Transaction{}, err
	}
	in, err := r.Account(ctx, batch, userID, rec.InAccountRef)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		UserID:            userID,
		Name:              rec.Name,
		Amount:            models.RoundMoney(rec.Amount.Decimal),
		Date:              rec.Date,
		Type:              rec.Type,
		CategoryID:        models.IDRef(category),
		OutAccountID:      models.IDRef(out),
		InAccountID:       models.IDRef(in),
		InstallmentNumber: rec.InstallmentNumber,
		TotalInstallments: rec.TotalInstallments,
	}, nil
}

// ResolvePlanning turns a parsed planning record into a monthly plan owned by
// userID.
func (r *Resolver) ResolvePlanning(ctx context.Context, rec models.PlanningRecord, batch *ImportBatch, userID int64) (models.MonthlyPlanning, error) {
	category, err := r.Category(ctx, batch, userID, rec.CategoryRef)
	if err != nil {
		return models.MonthlyPlanning{}, err
	}
	return models.MonthlyPlanning{
		UserID:          userID,
		Month:           rec.Month,
		Year:            rec.Year,
		CategoryID:      models.IDRef(category),
		EstimatedAmount: models.RoundMoney(rec.EstimatedAmount.Decimal),
	}, nil
}
