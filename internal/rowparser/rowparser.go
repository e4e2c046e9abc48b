// Package rowparser turns the data rows of a classified sheet into
// transaction and planning records. Malformed cells never fail a parse: the
// affected field stays unset and a record that ends up invalid is dropped.
package rowparser

import (
	"errors"
	"iter"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/parsererror"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"github.com/shopspring/decimal"
)

// Parser reads records out of sheets selected by the classifier.
type Parser struct {
	logger logging.Logger
}

// New creates a parser. A nil logger discards output.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Parser{logger: logger}
}

// rowContext reads the cells of one row by column and reports field defects.
type rowContext struct {
	parser *Parser
	sheet  string
	row    workbook.Row
	cols   classifier.ColumnMap
}

func (rc rowContext) cell(col classifier.Column) workbook.CellValue {
	return rc.row.Cell(rc.cols.Index(col))
}

func (rc rowContext) anchorsEmpty(a, b classifier.Column) bool {
	return rc.cell(a).Trimmed() == "" && rc.cell(b).Trimmed() == ""
}

// defect logs a field that could not be read. Empty optional cells are not
// defects.
func (rc rowContext) defect(col classifier.Column, err error) {
	if errors.Is(err, errEmpty) {
		return
	}
	perr := &parsererror.ParseError{
		Sheet: rc.sheet,
		Row:   rc.row.Number,
		Field: string(col),
		Value: rc.cell(col).Display(),
		Err:   err,
	}
	rc.parser.logger.WithError(perr).Debug("Cell left unset",
		logging.F(logging.FieldSheet, rc.sheet),
		logging.F(logging.FieldRow, rc.row.Number),
		logging.F(logging.FieldColumn, string(col)))
}

func (rc rowContext) amount(col classifier.Column) decimal.NullDecimal {
	d, err := numeric(rc.cell(col))
	if err != nil {
		rc.defect(col, err)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (rc rowContext) drop(reason string) {
	rc.parser.logger.Debug("Dropping invalid row",
		logging.F(logging.FieldSheet, rc.sheet),
		logging.F(logging.FieldRow, rc.row.Number),
		logging.F(logging.FieldStatus, reason))
}

// Transactions yields one record per valid data row, in sheet order. Rows
// whose name and amount cells are both empty are skipped. A record is
// yielded when it has a name, an amount and a date; an unknown type token
// only leaves the type unset.
func (p *Parser) Transactions(sel *classifier.Selection) iter.Seq[models.TransactionRecord] {
	return func(yield func(models.TransactionRecord) bool) {
		if sel == nil {
			return
		}
		for _, row := range sel.Sheet.DataRows() {
			rc := rowContext{parser: p, sheet: sel.Sheet.Name, row: row, cols: sel.Columns}
			if rc.anchorsEmpty(classifier.ColName, classifier.ColAmount) {
				continue
			}

			rec, ok := rc.transaction()
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (rc rowContext) transaction() (models.TransactionRecord, bool) {
	rec := models.TransactionRecord{
		Name:          rc.cell(classifier.ColName).Trimmed(),
		Amount:        rc.amount(classifier.ColAmount),
		CategoryRef:   reference(rc.cell(classifier.ColCategory)),
		OutAccountRef: reference(rc.cell(classifier.ColOutAccount)),
		InAccountRef:  reference(rc.cell(classifier.ColInAccount)),
	}

	if date, err := calendarDate(rc.cell(classifier.ColDate)); err == nil {
		rec.Date = date
	} else {
		rc.defect(classifier.ColDate, err)
	}
	if typ, err := transactionType(rc.cell(classifier.ColType)); err == nil {
		rec.Type = typ
	} else {
		rc.defect(classifier.ColType, err)
	}
	if n, err := count(rc.cell(classifier.ColInstallment)); err == nil {
		rec.InstallmentNumber = n
	} else {
		rc.defect(classifier.ColInstallment, err)
	}
	if n, err := count(rc.cell(classifier.ColInstallments)); err == nil {
		rec.TotalInstallments = n
	} else {
		rc.defect(classifier.ColInstallments, err)
	}

	switch {
	case rec.Name == "":
		rc.drop("missing name")
	case !rec.Amount.Valid:
		rc.drop("missing amount")
	case rec.Date.IsZero():
		rc.drop("missing date")
	default:
		return rec, true
	}
	return rec, false
}

// Planning yields one record per valid data row, in sheet order. Rows whose
// category and estimated amount cells are both empty are skipped. Month and
// year are truncated to integers; a record needs a month between 1 and 12, a
// positive year and an estimated amount.
func (p *Parser) Planning(sel *classifier.Selection) iter.Seq[models.PlanningRecord] {
	return func(yield func(models.PlanningRecord) bool) {
		if sel == nil {
			return
		}
		for _, row := range sel.Sheet.DataRows() {
			rc := rowContext{parser: p, sheet: sel.Sheet.Name, row: row, cols: sel.Columns}
			if rc.anchorsEmpty(classifier.ColCategory, classifier.ColEstimatedAmount) {
				continue
			}

			rec, ok := rc.planning()
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (rc rowContext) planning() (models.PlanningRecord, bool) {
	rec := models.PlanningRecord{
		CategoryRef:     reference(rc.cell(classifier.ColCategory)),
		EstimatedAmount: rc.amount(classifier.ColEstimatedAmount),
	}
	if month, err := integer(rc.cell(classifier.ColMonth)); err == nil {
		rec.Month = month
	} else {
		rc.defect(classifier.ColMonth, err)
	}
	if year, err := integer(rc.cell(classifier.ColYear)); err == nil {
		rec.Year = year
	} else {
		rc.defect(classifier.ColYear, err)
	}

	if !rec.Valid() {
		rc.drop("missing or out of range month, year or estimated amount")
		return rec, false
	}
	return rec, true
}
