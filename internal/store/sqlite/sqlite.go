// Package sqlite implements store.Store on an embedded SQLite database.
// Amounts are stored as decimal text and dates as YYYY-MM-DD text, so values
// read back exactly as written.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Store is a SQLite-backed store.Store.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and migrates it.
func New(dbPath string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(driverName, dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store ready", logging.F(logging.FieldFile, dbPath))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) FindCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? AND name = ? ORDER BY id LIMIT 1`,
		userID, name).Scan(&c.ID, &c.UserID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, store.ErrNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if err := store.ValidateCategory(c); err != nil {
		return models.Category{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name) VALUES (?, ?)`, c.UserID, c.Name)
	if err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const accountColumns = `id, user_id, name, initial_balance, current_balance`

func scanAccount(row interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.InitialBalance, &a.CurrentBalance)
	return a, err
}

func (s *Store) FindAccountByName(ctx context.Context, userID int64, name string) (models.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? AND name = ? ORDER BY id LIMIT 1`,
		userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, store.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	if err := store.ValidateAccount(a); err != nil {
		return models.Account{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, initial_balance, current_balance) VALUES (?, ?, ?, ?)`,
		a.UserID, a.Name, a.InitialBalance.String(), a.CurrentBalance.String())
	if err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idRef(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return models.IDRef(n.Int64)
}

// SaveTransaction inserts tx when its ID is zero and updates the user's
// transaction with that ID otherwise.
func (s *Store) SaveTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := store.ValidateTransaction(tx); err != nil {
		return models.Transaction{}, err
	}
	args := []any{
		tx.Name, tx.Amount.String(), dateutils.ToISODate(tx.Date), string(tx.Type),
		nullID(tx.CategoryID), nullID(tx.OutAccountID), nullID(tx.InAccountID),
		tx.InstallmentNumber, tx.TotalInstallments,
	}

	if tx.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO transactions
			(name, amount, date, type, category_id, out_account_id, in_account_id,
			 installment_number, total_installments, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, append(args, tx.UserID)...)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
		}
		if tx.ID, err = res.LastInsertId(); err != nil {
			return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
		}
		return tx, nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET
		name = ?, amount = ?, date = ?, type = ?, category_id = ?, out_account_id = ?,
		in_account_id = ?, installment_number = ?, total_installments = ?
		WHERE user_id = ? AND id = ?`, append(args, tx.UserID, tx.ID)...)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction: %w", err)
	} else if n == 0 {
		return models.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, name, amount, date, type,
		category_id, out_account_id, in_account_id, installment_number, total_installments
		FROM transactions WHERE user_id = ? ORDER BY date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			tx                    models.Transaction
			date, typ             string
			category, outAc, inAc sql.NullInt64
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Name, &tx.Amount, &date, &typ,
			&category, &outAc, &inAc, &tx.InstallmentNumber, &tx.TotalInstallments); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Date, err = dateutils.ParseISODate(date); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
		tx.Type = models.TransactionType(typ)
		tx.CategoryID, tx.OutAccountID, tx.InAccountID = idRef(category), idRef(outAc), idRef(inAc)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// SavePlanning inserts p when its ID is zero and updates the user's plan with
// that ID otherwise.
func (s *Store) SavePlanning(ctx context.Context, p models.MonthlyPlanning) (models.MonthlyPlanning, error) {
	if err := store.ValidatePlanning(p); err != nil {
		return models.MonthlyPlanning{}, err
	}
	args := []any{p.Month, p.Year, nullID(p.CategoryID), p.EstimatedAmount.String()}

	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO monthly_plannings
			(month, year, category_id, estimated_amount, user_id) VALUES (?, ?, ?, ?, ?)`,
			append(args, p.UserID)...)
		if err != nil {
			return models.MonthlyPlanning{}, fmt.Errorf("insert planning: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return models.MonthlyPlanning{}, fmt.Errorf("insert planning: %w", err)
		}
		return p, nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE monthly_plannings SET
		month = ?, year = ?, category_id = ?, estimated_amount = ?
		WHERE user_id = ? AND id = ?`, append(args, p.UserID, p.ID)...)
	if err != nil {
		return models.MonthlyPlanning{}, fmt.Errorf("update planning: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.MonthlyPlanning{}, fmt.Errorf("update planning: %w", err)
	} else if n == 0 {
		return models.MonthlyPlanning{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPlannings(ctx context.Context, userID int64) ([]models.MonthlyPlanning, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, month, year, category_id, estimated_amount
		FROM monthly_plannings WHERE user_id = ? ORDER BY year, month, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list plannings: %w", err)
	}
	defer rows.Close()

	var out []models.MonthlyPlanning
	for rows.Next() {
		var (
			p        models.MonthlyPlanning
			category sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Month, &p.Year, &category, &p.EstimatedAmount); err != nil {
			return nil, fmt.Errorf("scan planning: %w", err)
		}
		p.CategoryID = idRef(category)
		out = append(out, p)
	}
	return out, rows.Err()
}
