// Package workbook converts between binary spreadsheet workbooks and an
// in-memory model of sheets, rows and typed cells. Reading never interprets
// content beyond cell typing; classification and parsing live elsewhere.
package workbook

import (
	"strings"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/shopspring/decimal"
)

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindBoolean
	KindDate
)

func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// CellValue is a tagged union over text, number, boolean, date and empty.
// The zero value is an empty cell.
type CellValue struct {
	kind    CellKind
	text    string
	number  decimal.Decimal
	boolean bool
	date    time.Time
}

func Empty() CellValue { return CellValue{} }

func Text(s string) CellValue { return CellValue{kind: KindText, text: s} }

func Number(d decimal.Decimal) CellValue { return CellValue{kind: KindNumber, number: d} }

func Boolean(b bool) CellValue { return CellValue{kind: KindBoolean, boolean: b} }

// Date holds a calendar date; the clock part of t is dropped.
func Date(t time.Time) CellValue { return CellValue{kind: KindDate, date: dateutils.DateOnly(t)} }

// Kind returns the variant tag.
func (c CellValue) Kind() CellKind { return c.kind }

// IsEmpty reports whether the cell holds nothing. A text cell holding only
// whitespace is not empty; callers trim when that matters.
func (c CellValue) IsEmpty() bool { return c.kind == KindEmpty }

// Number returns the numeric payload of a number cell.
func (c CellValue) Number() (decimal.Decimal, bool) {
	return c.number, c.kind == KindNumber
}

// Date returns the native date payload of a date cell.
func (c CellValue) Date() (time.Time, bool) {
	return c.date, c.kind == KindDate
}

// Bool returns the payload of a boolean cell.
func (c CellValue) Bool() (bool, bool) {
	return c.boolean, c.kind == KindBoolean
}

// Display renders the cell the way a reader of the sheet sees it: text as is,
// numbers as plain decimals, booleans as true/false, dates as YYYY-MM-DD and
// empty cells as "".
func (c CellValue) Display() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.number.String()
	case KindBoolean:
		if c.boolean {
			return "true"
		}
		return "false"
	case KindDate:
		return dateutils.ToISODate(c.date)
	default:
		return ""
	}
}

// Trimmed is Display with surrounding whitespace removed.
func (c CellValue) Trimmed() string {
	return strings.TrimSpace(c.Display())
}

// Row is one sheet row. Number is the 1-based row index in the sheet.
type Row struct {
	Number int
	Cells  []CellValue
}

// Cell returns the cell at the 0-based column index, or an empty cell when the
// row is shorter.
func (r Row) Cell(col int) CellValue {
	if col < 0 || col >= len(r.Cells) {
		return Empty()
	}
	return r.Cells[col]
}

// IsBlank reports whether every cell of the row is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if c.Trimmed() != "" {
			return false
		}
	}
	return true
}

// Sheet is a named page of a workbook. Index is the 0-based position of the
// sheet in the workbook; Rows keeps every row including the header.
type Sheet struct {
	Name  string
	Index int
	Rows  []Row
}

// Header returns the first row of the sheet, if any.
func (s *Sheet) Header() (Row, bool) {
	if s == nil || len(s.Rows) == 0 {
		return Row{}, false
	}
	return s.Rows[0], true
}

// DataRows returns every row after the header.
func (s *Sheet) DataRows() []Row {
	if s == nil || len(s.Rows) < 2 {
		return nil
	}
	return s.Rows[1:]
}

// Workbook is a fully materialized workbook.
type Workbook struct {
	Sheets []*Sheet
}

// SheetByName returns the sheet with exactly the given name.
func (w *Workbook) SheetByName(name string) *Sheet {
	if w == nil {
		return nil
	}
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}
