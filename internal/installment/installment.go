// Package installment splits a purchase paid in N monthly installments into
// N dated transactions.
package installment

import (
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
)

// Expand returns the installments of tx. When TotalInstallments is unset, 1
// or above models.MaxInstallments the result is tx alone. Otherwise every
// installment carries amount/N rounded to cents (half away from zero); the
// rounding remainder is not redistributed. The first installment keeps tx's
// date and installment number, defaulting the number to 1. The one numbered
// i (2..N) is dated i-1 months after tx, clamped to the end of shorter months.
func Expand(tx models.Transaction) []models.Transaction {
	n := tx.TotalInstallments
	if n <= 1 || n > models.MaxInstallments {
		return []models.Transaction{tx}
	}

	first := tx
	first.Amount = models.SplitEvenly(tx.Amount, n)
	if first.InstallmentNumber == 0 {
		first.InstallmentNumber = 1
	}

	out := make([]models.Transaction, 0, n)
	out = append(out, first)
	for i := 2; i <= n; i++ {
		inst := first
		inst.InstallmentNumber = i
		inst.Date = dateutils.AddMonths(first.Date, i-1)
		out = append(out, inst)
	}
	return out
}
