package interchange

import (
	"context"
	"fmt"
	"io"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"github.com/shopspring/decimal"
)

// Records loads the user's transactions and plans as workbook records, with
// entity ids replaced by names. Transactions are ordered by date, plans by
// period.
func (e *Engine) Records(ctx context.Context, userID int64) ([]models.TransactionRecord, []models.PlanningRecord, error) {
	categories, err := e.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	accounts, err := e.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}
	transactions, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	plannings, err := e.store.ListPlannings(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list plannings: %w", err)
	}

	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}
	accountNames := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	name := func(names map[int64]string, id *int64) string {
		if id == nil {
			return ""
		}
		return names[*id]
	}

	txs := make([]models.TransactionRecord, 0, len(transactions))
	for _, tx := range transactions {
		txs = append(txs, models.TransactionRecord{
			Name:              tx.Name,
			Amount:            decimal.NewNullDecimal(tx.Amount),
			Date:              tx.Date,
			Type:              tx.Type,
			CategoryRef:       name(categoryNames, tx.CategoryID),
			OutAccountRef:     name(accountNames, tx.OutAccountID),
			InAccountRef:      name(accountNames, tx.InAccountID),
			InstallmentNumber: tx.InstallmentNumber,
			TotalInstallments: tx.TotalInstallments,
		})
	}

	plans := make([]models.PlanningRecord, 0, len(plannings))
	for _, p := range plannings {
		plans = append(plans, models.PlanningRecord{
			Month:           p.Month,
			Year:            p.Year,
			CategoryRef:     name(categoryNames, p.CategoryID),
			EstimatedAmount: decimal.NewNullDecimal(p.EstimatedAmount),
		})
	}
	return txs, plans, nil
}

// Write renders records into the two-sheet export workbook.
func (e *Engine) Write(w io.Writer, transactions []models.TransactionRecord, plans []models.PlanningRecord) error {
	return workbook.Write(w, e.layout, transactions, plans)
}

// Export writes every transaction and plan of userID as a workbook that
// Import reads back.
func (e *Engine) Export(ctx context.Context, w io.Writer, userID int64) error {
	txs, plans, err := e.Records(ctx, userID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := e.Write(w, txs, plans); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	e.logger.Info("Workbook exported",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldFormat, "xlsx"),
		logging.F("transactions", len(txs)),
		logging.F("plans", len(plans)))
	return nil
}
