package rowparser

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"github.com/shopspring/decimal"
)

var (
	errEmpty       = errors.New("empty cell")
	errNotNumeric  = errors.New("not a number")
	errNotDate     = errors.New("not a calendar date")
	errUnknownType = errors.New("unknown transaction type")
	errNotCount    = errors.New("count must be a positive integer")
	errOutOfRange  = errors.New("integer out of range")
	errTooMany     = fmt.Errorf("count above %d", models.MaxInstallments)
)

// numeric reads a decimal from a native number cell or from a decimal literal
// in a text cell.
func numeric(c workbook.CellValue) (decimal.Decimal, error) {
	switch c.Kind() {
	case workbook.KindEmpty:
		return decimal.Zero, errEmpty
	case workbook.KindNumber:
		d, _ := c.Number()
		return d, nil
	case workbook.KindText:
		if c.Trimmed() == "" {
			return decimal.Zero, errEmpty
		}
		d, err := models.ParseDecimal(c.Trimmed())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", errNotNumeric, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s cell", errNotNumeric, c.Kind())
	}
}

// integer truncates a numeric cell toward zero ("1.0" and 1.9 both give 1).
// Values outside the 32-bit range are rejected.
func integer(c workbook.CellValue) (int, error) {
	d, err := numeric(c)
	if err != nil {
		return 0, err
	}
	whole := d.Truncate(0)
	if whole.LessThan(minInteger) || whole.GreaterThan(maxInteger) {
		return 0, fmt.Errorf("%w: %s", errOutOfRange, d)
	}
	return int(whole.IntPart()), nil
}

var (
	minInteger = decimal.NewFromInt(math.MinInt32)
	maxInteger = decimal.NewFromInt(math.MaxInt32)
)

// count reads an optional installment counter, between 1 and
// models.MaxInstallments.
func count(c workbook.CellValue) (int, error) {
	n, err := integer(c)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errNotCount
	}
	if n > models.MaxInstallments {
		return 0, errTooMany
	}
	return n, nil
}

// calendarDate parses the displayed text as YYYY-MM-DD and falls back to the
// native date of a date cell.
func calendarDate(c workbook.CellValue) (time.Time, error) {
	if c.Trimmed() == "" {
		return time.Time{}, errEmpty
	}
	if t, err := dateutils.ParseISODate(c.Display()); err == nil {
		return t, nil
	}
	if t, ok := c.Date(); ok {
		return t, nil
	}
	return time.Time{}, errNotDate
}

// transactionType matches the trimmed cell text against the type tokens.
func transactionType(c workbook.CellValue) (models.TransactionType, error) {
	token := c.Trimmed()
	if token == "" {
		return "", errEmpty
	}
	t, ok := models.ParseTransactionType(token)
	if !ok {
		return "", errUnknownType
	}
	return t, nil
}

// reference returns the trimmed text of an optional reference cell.
func reference(c workbook.CellValue) string {
	return c.Trimmed()
}
