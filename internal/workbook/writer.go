package workbook

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Layout fixes the titles and header labels of the two exported sheets.
// TransactionHeaders must hold 7 labels (name, date, amount, type, category,
// out-account, in-account) and PlanningHeaders 4 (month, year, category,
// estimated amount).
type Layout struct {
	TransactionsTitle  string
	PlanningTitle      string
	TransactionHeaders []string
	PlanningHeaders    []string
}

const (
	transactionColumns = 7
	planningColumns    = 4
	defaultSheet       = "Sheet1"
)

func (l Layout) validate() error {
	if l.TransactionsTitle == "" || l.PlanningTitle == "" {
		return fmt.Errorf("sheet titles cannot be empty")
	}
	if l.TransactionsTitle == l.PlanningTitle {
		return fmt.Errorf("sheet titles must differ, both are %q", l.TransactionsTitle)
	}
	if len(l.TransactionHeaders) != transactionColumns {
		return fmt.Errorf("expected %d transaction headers, got %d", transactionColumns, len(l.TransactionHeaders))
	}
	if len(l.PlanningHeaders) != planningColumns {
		return fmt.Errorf("expected %d planning headers, got %d", planningColumns, len(l.PlanningHeaders))
	}
	return nil
}

// Write renders transactions and plans into a two-sheet workbook, one row per
// record in input order. Absent optional fields are left as empty cells, dates
// are written as YYYY-MM-DD text and amounts as plain numbers, so the output
// parses back to the same records.
func Write(w io.Writer, layout Layout, transactions []models.TransactionRecord, plans []models.PlanningRecord) error {
	if err := layout.validate(); err != nil {
		return fmt.Errorf("invalid workbook layout: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, layout.TransactionsTitle); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(layout.PlanningTitle); err != nil {
		return fmt.Errorf("create planning sheet: %w", err)
	}

	tw := &sheetWriter{file: f, sheet: layout.TransactionsTitle}
	tw.header(layout.TransactionHeaders)
	for i, tx := range transactions {
		row := i + 2
		tw.text(1, row, tx.Name)
		if !tx.Date.IsZero() {
			tw.text(2, row, dateutils.ToISODate(tx.Date))
		}
		if tx.Amount.Valid {
			tw.amount(3, row, tx.Amount.Decimal)
		}
		tw.text(4, row, string(tx.Type))
		tw.text(5, row, tx.CategoryRef)
		tw.text(6, row, tx.OutAccountRef)
		tw.text(7, row, tx.InAccountRef)
	}
	if tw.err != nil {
		return fmt.Errorf("write transactions sheet: %w", tw.err)
	}

	pw := &sheetWriter{file: f, sheet: layout.PlanningTitle}
	pw.header(layout.PlanningHeaders)
	for i, p := range plans {
		row := i + 2
		pw.value(1, row, p.Month)
		pw.value(2, row, p.Year)
		pw.text(3, row, p.CategoryRef)
		if p.EstimatedAmount.Valid {
			pw.amount(4, row, p.EstimatedAmount.Decimal)
		}
	}
	if pw.err != nil {
		return fmt.Errorf("write planning sheet: %w", pw.err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	return nil
}

// WriteBytes is Write into a byte slice.
func WriteBytes(layout Layout, transactions []models.TransactionRecord, plans []models.PlanningRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, layout, transactions, plans); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the row loops stay flat.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	err   error
}

func (sw *sheetWriter) header(labels []string) {
	for i, label := range labels {
		sw.text(i+1, 1, label)
	}
}

func (sw *sheetWriter) text(col, row int, s string) {
	if s == "" {
		return
	}
	sw.value(col, row, s)
}

// amount stores the decimal's own digits as an untyped numeric cell, so no
// precision is lost to float64.
func (sw *sheetWriter) amount(col, row int, d decimal.Decimal) {
	if sw.err != nil {
		return
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.file.SetCellDefault(sw.sheet, axis, d.String())
}

func (sw *sheetWriter) value(col, row int, v interface{}) {
	if sw.err != nil {
		return
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.file.SetCellValue(sw.sheet, axis, v)
}
