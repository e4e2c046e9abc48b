package interchange

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seed(t *testing.T, st store.Store, userID int64) {
	t.Helper()
	ctx := context.Background()

	casa, err := st.CreateCategory(ctx, models.Category{UserID: userID, Name: "Casa"})
	require.NoError(t, err)
	cartao, err := st.CreateAccount(ctx, models.Account{UserID: userID, Name: "Cartão"})
	require.NoError(t, err)

	_, err = st.SaveTransaction(ctx, models.Transaction{
		UserID: userID, Name: "Aluguel", Amount: decimal.RequireFromString("1800.00"),
		Date: dateutils.Date(2024, time.March, 5), Type: models.TransactionTypeExpense,
		CategoryID: models.IDRef(casa.ID), OutAccountID: models.IDRef(cartao.ID),
	})
	require.NoError(t, err)
	_, err = st.SaveTransaction(ctx, models.Transaction{
		UserID: userID, Name: "Bônus", Amount: decimal.RequireFromString("700.5"),
		Date: dateutils.Date(2024, time.February, 1), Type: models.TransactionTypeIncome,
	})
	require.NoError(t, err)
	_, err = st.SavePlanning(ctx, models.MonthlyPlanning{
		UserID: userID, Month: 3, Year: 2024, CategoryID: models.IDRef(casa.ID),
		EstimatedAmount: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
}

func TestExport_WritesStoredRecordsByName(t *testing.T) {
	st := memory.New()
	seed(t, st, 1)
	seed(t, st, 2)
	e, logger := newEngine(t, st, "pt")

	var buf bytes.Buffer
	require.NoError(t, e.Export(context.Background(), &buf, 1))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Transações", "Planejamento"}, f.GetSheetList())
	rows, err := f.GetRows("Transações")
	require.NoError(t, err)
	require.Len(t, rows, 3, "only the requesting user's transactions")
	assert.Equal(t, []string{"Bônus", "2024-02-01", "700.5", "INCOME"}, rows[1])
	assert.Equal(t, []string{"Aluguel", "2024-03-05", "1800", "EXPENSE", "Casa", "Cartão"}, rows[2])

	plans, err := f.GetRows("Planejamento")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, []string{"3", "2024", "Casa", "2000"}, plans[1])
	assert.True(t, logger.HasEntry("INFO", "Workbook exported"))
}

func TestExport_ImportIntoAnotherUser(t *testing.T) {
	st := memory.New()
	seed(t, st, 1)
	e, _ := newEngine(t, st, "en")
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, e.Export(ctx, &buf, 1))

	result, err := e.Import(ctx, bytes.NewReader(buf.Bytes()), 5)
	require.NoError(t, err)
	assert.Equal(t, "Transactions", result.TransactionsSheet)
	assert.Equal(t, "Planning", result.PlanningSheet)
	assert.Len(t, result.Transactions, 2)
	assert.Len(t, result.Plans, 1)
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Equal(t, 1, result.AccountsCreated)

	original, _, err := e.Records(ctx, 1)
	require.NoError(t, err)
	copied, _, err := e.Records(ctx, 5)
	require.NoError(t, err)
	require.Len(t, copied, len(original))
	for i := range original {
		assert.Equal(t, original[i].Name, copied[i].Name)
		assert.Equal(t, original[i].Date, copied[i].Date)
		assert.Equal(t, original[i].Type, copied[i].Type)
		assert.Equal(t, original[i].CategoryRef, copied[i].CategoryRef)
		assert.Equal(t, original[i].OutAccountRef, copied[i].OutAccountRef)
		assert.True(t, original[i].Amount.Decimal.Equal(copied[i].Amount.Decimal))
	}
}

func TestExportCSV(t *testing.T) {
	st := memory.New()
	seed(t, st, 1)
	vocab, err := classifier.DefaultVocabulary()
	require.NoError(t, err)
	e, err := New(st, vocab, "pt", nil, WithCSVDelimiter(';'))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(context.Background(), &buf, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name;date;amount;type;category;out_account;in_account;installment_number;total_installments", lines[0])
	assert.Equal(t, "Bônus;2024-02-01;700.50;INCOME;;;;;", lines[1])
	assert.Equal(t, "Aluguel;2024-03-05;1800.00;EXPENSE;Casa;Cartão;;;", lines[2])
}

func TestExport_StoreFailure(t *testing.T) {
	boom := errors.New("closed")
	st := &failingLister{Store: memory.New(), err: boom}
	e, _ := newEngine(t, st, "pt")

	err := e.Export(context.Background(), &bytes.Buffer{}, 1)
	assert.ErrorIs(t, err, boom)
	err = e.ExportCSV(context.Background(), &bytes.Buffer{}, 1)
	assert.ErrorIs(t, err, boom)
}

type failingLister struct {
	store.Store
	err error
}

func (f *failingLister) ListTransactions(context.Context, int64) ([]models.Transaction, error) {
	return nil, f.err
}
