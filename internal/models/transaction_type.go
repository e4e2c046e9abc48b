package models

// TransactionType classifies a transaction. The empty value means the type is
// unknown (an unrecognized token in an imported row).
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionTypes lists the accepted tokens in their canonical order.
var TransactionTypes = []TransactionType{
	TransactionTypeIncome,
	TransactionTypeExpense,
	TransactionTypeTransfer,
}

// ParseTransactionType matches token exactly (case-sensitive, no trimming)
// against the accepted tokens.
func ParseTransactionType(token string) (TransactionType, bool) {
	for _, t := range TransactionTypes {
		if string(t) == token {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is one of the accepted tokens.
func (t TransactionType) Valid() bool {
	_, ok := ParseTransactionType(string(t))
	return ok
}
