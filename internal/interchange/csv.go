package interchange

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/gocarina/gocsv"
)

// csvTransaction is one line of the flat CSV backup.
type csvTransaction struct {
	Name              string `csv:"name"`
	Date              string `csv:"date"`
	Amount            string `csv:"amount"`
	Type              string `csv:"type"`
	Category          string `csv:"category"`
	OutAccount        string `csv:"out_account"`
	InAccount         string `csv:"in_account"`
	InstallmentNumber int    `csv:"installment_number,omitempty"`
	TotalInstallments int    `csv:"total_installments,omitempty"`
}

// ExportCSV writes the user's transactions as CSV with a header line. Amounts
// always carry two decimals.
func (e *Engine) ExportCSV(ctx context.Context, w io.Writer, userID int64) error {
	txs, _, err := e.Records(ctx, userID)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	rows := make([]csvTransaction, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, csvTransaction{
			Name:              tx.Name,
			Date:              dateutils.ToISODate(tx.Date),
			Amount:            tx.Amount.Decimal.StringFixed(2),
			Type:              string(tx.Type),
			Category:          tx.CategoryRef,
			OutAccount:        tx.OutAccountRef,
			InAccount:         tx.InAccountRef,
			InstallmentNumber: tx.InstallmentNumber,
			TotalInstallments: tx.TotalInstallments,
		})
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.csvComma
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		e.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	e.logger.Info("Transactions exported",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldFormat, "csv"),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
