// Package interchange runs the workbook import and export pipelines:
// read, classify, parse, resolve, expand and persist on the way in; load,
// name and write on the way out.
package interchange

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/installment"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/resolver"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/rowparser"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"github.com/google/uuid"
)

// Engine converts between workbooks and a user's stored records. It holds no
// per-call state and may be shared between goroutines.
type Engine struct {
	store      store.Store
	classifier *classifier.Classifier
	parser     *rowparser.Parser
	resolver   *resolver.Resolver
	layout     workbook.Layout
	csvComma   rune
	logger     logging.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithCSVDelimiter sets the field separator used by ExportCSV.
func WithCSVDelimiter(comma rune) Option {
	return func(e *Engine) { e.csvComma = comma }
}

// New builds an engine over st. Exports use the titles and labels of locale.
func New(st store.Store, vocab *classifier.Vocabulary, locale string, logger logging.Logger, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if vocab == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	layout, err := vocab.WriterLayout(locale)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:      st,
		classifier: classifier.New(vocab, logger),
		parser:     rowparser.New(logger),
		resolver:   resolver.New(st, st, logger),
		layout:     layout,
		csvComma:   ',',
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Parsed is the content of a workbook before resolution.
type Parsed struct {
	TransactionsSheet string
	PlanningSheet     string
	Transactions      []models.TransactionRecord
	Plans             []models.PlanningRecord
}

// Parse reads a workbook and returns its valid records without touching the
// store. Only a structurally unreadable workbook is an error.
func (e *Engine) Parse(r io.Reader) (*Parsed, error) {
	wb, err := workbook.Read(r)
	if err != nil {
		return nil, err
	}
	a := e.classifier.Assign(wb)

	p := &Parsed{
		Transactions: slices.Collect(e.parser.Transactions(a.Transactions)),
		Plans:        slices.Collect(e.parser.Planning(a.Planning)),
	}
	if a.Transactions != nil {
		p.TransactionsSheet = a.Transactions.Sheet.Name
	}
	if a.Planning != nil {
		p.PlanningSheet = a.Planning.Sheet.Name
	}
	return p, nil
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	BatchID           uuid.UUID                `json:"batchId"`
	TransactionsSheet string                   `json:"transactionsSheet,omitempty"`
	PlanningSheet     string                   `json:"planningSheet,omitempty"`
	RowsImported      int                      `json:"rowsImported"`
	Transactions      []models.Transaction     `json:"transactions"`
	Plans             []models.MonthlyPlanning `json:"plans"`
	CategoriesCreated int                      `json:"categoriesCreated"`
	AccountsCreated   int                      `json:"accountsCreated"`
}

// Import reads a workbook and persists its records for userID. Category and
// account names are resolved once per distinct name; purchases in several
// installments are saved as one transaction per installment. Invalid rows are
// skipped silently. A persistence failure aborts the import; records saved
// before it are kept.
func (e *Engine) Import(ctx context.Context, r io.Reader, userID int64) (*ImportResult, error) {
	if userID == 0 {
		return nil, fmt.Errorf("import requires a user")
	}
	start := time.Now()

	wb, err := workbook.Read(r)
	if err != nil {
		return nil, err
	}
	a := e.classifier.Assign(wb)

	batch := resolver.NewImportBatch()
	log := e.logger.WithFields(
		logging.F(logging.FieldBatch, batch.ID.String()),
		logging.F(logging.FieldUser, userID))

	result := &ImportResult{
		BatchID:      batch.ID,
		Transactions: []models.Transaction{},
		Plans:        []models.MonthlyPlanning{},
	}
	if a.Transactions != nil {
		result.TransactionsSheet = a.Transactions.Sheet.Name
	}
	if a.Planning != nil {
		result.PlanningSheet = a.Planning.Sheet.Name
	}

	for rec := range e.parser.Transactions(a.Transactions) {
		tx, err := e.resolver.ResolveTransaction(ctx, rec, batch, userID)
		if err != nil {
			return nil, fmt.Errorf("import transaction %q: %w", rec.Name, err)
		}
		saved, err := e.save(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("import transaction %q: %w", rec.Name, err)
		}
		result.RowsImported++
		result.Transactions = append(result.Transactions, saved...)
	}

	for rec := range e.parser.Planning(a.Planning) {
		p, err := e.resolver.ResolvePlanning(ctx, rec, batch, userID)
		if err != nil {
			return nil, fmt.Errorf("import planning %04d-%02d: %w", rec.Year, rec.Month, err)
		}
		saved, err := e.store.SavePlanning(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("import planning %04d-%02d: save: %w", rec.Year, rec.Month, err)
		}
		result.RowsImported++
		result.Plans = append(result.Plans, saved)
	}

	result.CategoriesCreated = batch.Created(resolver.KindCategory)
	result.AccountsCreated = batch.Created(resolver.KindAccount)

	log.Info("Workbook imported",
		logging.F(logging.FieldCount, result.RowsImported),
		logging.F("transactions", len(result.Transactions)),
		logging.F("plans", len(result.Plans)),
		logging.F("categories_created", result.CategoriesCreated),
		logging.F("accounts_created", result.AccountsCreated),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// SaveTransaction persists tx, first expanding it into its installments when
// it spans several months. The saved transactions are returned in
// installment order.
func (e *Engine) SaveTransaction(ctx context.Context, tx models.Transaction) ([]models.Transaction, error) {
	if tx.UserID == 0 {
		return nil, fmt.Errorf("save transaction: missing owner")
	}
	return e.save(ctx, tx)
}

func (e *Engine) save(ctx context.Context, tx models.Transaction) ([]models.Transaction, error) {
	parts := installment.Expand(tx)
	saved := make([]models.Transaction, 0, len(parts))
	for _, part := range parts {
		s, err := e.store.SaveTransaction(ctx, part)
		if err != nil && len(parts) == 1 {
			return saved, fmt.Errorf("save transaction: %w", err)
		}
		if err != nil {
			return saved, fmt.Errorf("save installment %d/%d: %w", part.InstallmentNumber, len(parts), err)
		}
		saved = append(saved, s)
	}
	return saved, nil
}
