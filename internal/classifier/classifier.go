// Package classifier decides which sheet of an imported workbook holds
// transactions and which holds budget plans. Decisions are made from the
// header row alone; sheet titles only act as a shortcut.
package classifier

import (
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
)

// Role is the structural role of a sheet.
type Role int

const (
	RoleUnknown Role = iota
	RoleTransactions
	RolePlanning
)

func (r Role) String() string {
	switch r {
	case RoleTransactions:
		return "transactions"
	case RolePlanning:
		return "planning"
	default:
		return "unknown"
	}
}

// requiredColumns lists, per role, the columns a header must name.
var requiredColumns = map[Role][]Column{
	RoleTransactions: {ColName, ColDate, ColAmount},
	RolePlanning:     {ColMonth, ColYear, ColCategory, ColEstimatedAmount},
}

// ColumnMap maps each recognized column to its 0-based position in the
// header. When a column appears twice the leftmost one wins.
type ColumnMap map[Column]int

// Has reports whether every given column is present.
func (m ColumnMap) Has(cols ...Column) bool {
	for _, col := range cols {
		if _, ok := m[col]; !ok {
			return false
		}
	}
	return true
}

// Index returns the position of col, or -1 when the header lacks it.
func (m ColumnMap) Index(col Column) int {
	if i, ok := m[col]; ok {
		return i
	}
	return -1
}

// Selection is a sheet chosen for a role together with its column positions.
type Selection struct {
	Sheet   *workbook.Sheet
	Columns ColumnMap
}

// Assignment holds the sheets picked for each role. Either may be nil.
type Assignment struct {
	Transactions *Selection
	Planning     *Selection
}

// Classifier classifies sheets against a header vocabulary.
type Classifier struct {
	vocab  *Vocabulary
	logger logging.Logger
}

// New creates a classifier. A nil logger discards output.
func New(vocab *Vocabulary, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Classifier{vocab: vocab, logger: logger}
}

// Vocabulary returns the vocabulary the classifier matches headers against.
func (c *Classifier) Vocabulary() *Vocabulary {
	return c.vocab
}

// Columns locates the recognized columns of the sheet's header row.
func (c *Classifier) Columns(sheet *workbook.Sheet) ColumnMap {
	cols := ColumnMap{}
	header, ok := sheet.Header()
	if !ok {
		return cols
	}
	for i, cell := range header.Cells {
		col, ok := c.vocab.Lookup(cell.Display())
		if !ok {
			continue
		}
		if _, seen := cols[col]; !seen {
			cols[col] = i
		}
	}
	return cols
}

// Matches reports whether the sheet's header satisfies role.
func (c *Classifier) Matches(sheet *workbook.Sheet, role Role) bool {
	required, ok := requiredColumns[role]
	return ok && c.Columns(sheet).Has(required...)
}

// Classify returns the role of a single sheet. A header satisfying both roles
// is reported as transactions.
func (c *Classifier) Classify(sheet *workbook.Sheet) Role {
	cols := c.Columns(sheet)
	switch {
	case cols.Has(requiredColumns[RoleTransactions]...):
		return RoleTransactions
	case cols.Has(requiredColumns[RolePlanning]...):
		return RolePlanning
	default:
		return RoleUnknown
	}
}

// Assign picks at most one sheet per role, transactions first. For each role
// a sheet with the conventional title is preferred when its header qualifies;
// otherwise sheets are scanned in workbook order and the first qualifying one
// not yet assigned wins.
func (c *Classifier) Assign(wb *workbook.Workbook) Assignment {
	var a Assignment
	if wb == nil {
		return a
	}

	taken := map[*workbook.Sheet]bool{}
	for _, role := range []Role{RoleTransactions, RolePlanning} {
		sel := c.pick(wb, role, taken)
		if sel == nil {
			c.logger.Debug("No sheet qualifies for role", logging.F(logging.FieldRole, role.String()))
			continue
		}
		taken[sel.Sheet] = true
		c.logger.Info("Selected sheet for role",
			logging.F(logging.FieldRole, role.String()),
			logging.F(logging.FieldSheet, sel.Sheet.Name))

		if role == RoleTransactions {
			a.Transactions = sel
		} else {
			a.Planning = sel
		}
	}
	return a
}

func (c *Classifier) pick(wb *workbook.Workbook, role Role, taken map[*workbook.Sheet]bool) *Selection {
	required := requiredColumns[role]

	for _, sheet := range wb.Sheets {
		if taken[sheet] || !c.vocab.IsTitle(role, sheet.Name) {
			continue
		}
		if cols := c.Columns(sheet); cols.Has(required...) {
			return &Selection{Sheet: sheet, Columns: cols}
		}
		c.logger.Debug("Titled sheet lacks required headers, scanning all sheets",
			logging.F(logging.FieldRole, role.String()),
			logging.F(logging.FieldSheet, sheet.Name))
	}

	for _, sheet := range wb.Sheets {
		if taken[sheet] {
			continue
		}
		if cols := c.Columns(sheet); cols.Has(required...) {
			return &Selection{Sheet: sheet, Columns: cols}
		}
	}
	return nil
}
