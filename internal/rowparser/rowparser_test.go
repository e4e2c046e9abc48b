package rowparser

import (
	"slices"
	"testing"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cell converts test literals to cell values: nil is empty, strings are text,
// ints and floats are numbers, time.Time is a native date.
func cell(v interface{}) workbook.CellValue {
	switch x := v.(type) {
	case nil:
		return workbook.Empty()
	case string:
		return workbook.Text(x)
	case int:
		return workbook.Number(decimal.NewFromInt(int64(x)))
	case float64:
		return workbook.Number(decimal.NewFromFloat(x))
	case bool:
		return workbook.Boolean(x)
	case time.Time:
		return workbook.Date(x)
	default:
		panic("unsupported cell literal")
	}
}

func selection(t *testing.T, name string, rows ...[]interface{}) *classifier.Selection {
	t.Helper()
	sheet := &workbook.Sheet{Name: name}
	for i, values := range rows {
		row := workbook.Row{Number: i + 1}
		for _, v := range values {
			row.Cells = append(row.Cells, cell(v))
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	vocab, err := classifier.DefaultVocabulary()
	require.NoError(t, err)
	c := classifier.New(vocab, nil)
	return &classifier.Selection{Sheet: sheet, Columns: c.Columns(sheet)}
}

var txHeader = []interface{}{"Nome", "Data", "Valor", "Tipo", "Categoria", "Conta Saída", "Conta Entrada"}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestTransactions(t *testing.T) {
	sel := selection(t, "Transações",
		txHeader,
		[]interface{}{"Salário", "2024-01-05", 5000, "INCOME", "Trabalho", nil, "Conta Corrente"},
		[]interface{}{" Mercado ", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), "152.37", "EXPENSE", " Alimentação ", "Cartão"},
		[]interface{}{"Sem valor", "2024-01-07"},
		[]interface{}{"Data ruim", "invalid-date", 10, "EXPENSE"},
		[]interface{}{nil, "2024-01-08", nil, "EXPENSE", "Lixo"},
		[]interface{}{"Tipo estranho", "2024-01-09", 1.5, "income"},
		[]interface{}{"Valor texto", "2024-01-10", "R$ 10,00"},
		[]interface{}{"   ", "2024-01-11", 99},
	)

	logger := logging.NewMockLogger()
	got := slices.Collect(New(logger).Transactions(sel))

	want := []models.TransactionRecord{
		{
			Name:         "Salário",
			Amount:       dec("5000"),
			Date:         dateutils.Date(2024, time.January, 5),
			Type:         models.TransactionTypeIncome,
			CategoryRef:  "Trabalho",
			InAccountRef: "Conta Corrente",
		},
		{
			Name:          "Mercado",
			Amount:        dec("152.37"),
			Date:          dateutils.Date(2024, time.January, 6),
			Type:          models.TransactionTypeExpense,
			CategoryRef:   "Alimentação",
			OutAccountRef: "Cartão",
		},
		{
			Name:   "Tipo estranho",
			Amount: dec("1.5"),
			Date:   dateutils.Date(2024, time.January, 9),
		},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.True(t, want[i].Amount.Decimal.Equal(got[i].Amount.Decimal), "row %d amount", i)
		assert.True(t, got[i].Amount.Valid)
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].CategoryRef, got[i].CategoryRef)
		assert.Equal(t, want[i].OutAccountRef, got[i].OutAccountRef)
		assert.Equal(t, want[i].InAccountRef, got[i].InAccountRef)
	}

	assert.True(t, logger.HasEntry("DEBUG", "Dropping invalid row"))
	assert.True(t, logger.HasEntry("DEBUG", "Cell left unset"))
}

func TestTransactions_InvalidDateRowExcluded(t *testing.T) {
	sel := selection(t, "Transações",
		txHeader,
		[]interface{}{"Compra", "invalid-date", 100, "EXPENSE"},
	)

	var got []models.TransactionRecord
	assert.NotPanics(t, func() {
		got = slices.Collect(New(nil).Transactions(sel))
	})
	assert.Empty(t, got)
}

func TestTransactions_MissingAmountExcluded(t *testing.T) {
	sel := selection(t, "Transações",
		txHeader,
		[]interface{}{"Compra", "2024-05-01", nil, "EXPENSE"},
		[]interface{}{"Outra", "2024-05-02", 20, "EXPENSE"},
	)

	got := slices.Collect(New(nil).Transactions(sel))
	require.Len(t, got, 1)
	assert.Equal(t, "Outra", got[0].Name)
}

func TestTransactions_ColumnsByHeader(t *testing.T) {
	sel := selection(t, "Dados",
		[]interface{}{"Amount", "Parcelas", "Name", "Obs", "Date", "Parcela"},
		[]interface{}{300, 3, "Geladeira", "x", "2024-01-31", 1},
		[]interface{}{50, 0, "Fone", "x", "2024-02-01", "abc"},
	)

	got := slices.Collect(New(nil).Transactions(sel))
	require.Len(t, got, 2)

	assert.Equal(t, "Geladeira", got[0].Name)
	assert.Equal(t, 3, got[0].TotalInstallments)
	assert.Equal(t, 1, got[0].InstallmentNumber)
	assert.Equal(t, dateutils.Date(2024, time.January, 31), got[0].Date)

	assert.Equal(t, 0, got[1].TotalInstallments, "non-positive counts stay unset")
	assert.Equal(t, 0, got[1].InstallmentNumber)
}

func TestTransactions_StopsWhenConsumerStops(t *testing.T) {
	sel := selection(t, "Transações",
		txHeader,
		[]interface{}{"a", "2024-01-01", 1},
		[]interface{}{"b", "2024-01-02", 2},
		[]interface{}{"c", "2024-01-03", 3},
	)

	var names []string
	for rec := range New(nil).Transactions(sel) {
		names = append(names, rec.Name)
		if len(names) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Empty(t, slices.Collect(New(nil).Transactions(nil)))
}

func TestPlanning(t *testing.T) {
	sel := selection(t, "Minhas Metas",
		[]interface{}{"Month", "Year", "Category", "Estimated-Amount"},
		[]interface{}{1, 2025, "Alimentação", 1500.00},
	)

	got := slices.Collect(New(nil).Planning(sel))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, 2025, got[0].Year)
	assert.Equal(t, "Alimentação", got[0].CategoryRef)
	assert.True(t, decimal.RequireFromString("1500.00").Equal(got[0].EstimatedAmount.Decimal))
}

func TestPlanning_RowRules(t *testing.T) {
	sel := selection(t, "Planejamento",
		[]interface{}{"Mês", "Ano", "Categoria", "Valor Estimado"},
		[]interface{}{"1.0", "2025.0", "Lazer", "200"},
		[]interface{}{13, 2025, "Lazer", 200},
		[]interface{}{2, nil, "Lazer", 200},
		[]interface{}{3, 2025, "Lazer", nil},
		[]interface{}{4, 2025, nil, nil},
		[]interface{}{5, 2025, nil, 80.5},
		[]interface{}{"seis", 2025, "Lazer", 10},
	)

	logger := logging.NewMockLogger()
	got := slices.Collect(New(logger).Planning(sel))
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, 2025, got[0].Year)
	assert.Equal(t, 5, got[1].Month)
	assert.Empty(t, got[1].CategoryRef)
	assert.True(t, decimal.RequireFromString("80.5").Equal(got[1].EstimatedAmount.Decimal))

	// rows 3, 4, 5 and 8 are dropped (row 8 also logs its month cell); row 6 is skipped as blank
	assert.Len(t, logger.EntriesByLevel("DEBUG"), 5)
}

func TestTransactions_InstallmentCounts(t *testing.T) {
	sel := selection(t, "Transações",
		[]interface{}{"Nome", "Data", "Valor", "Parcela", "Parcelas"},
		[]interface{}{"TV", "2024-01-10", 600, nil, "1000000000000000000"},
		[]interface{}{"Sofá", "2024-01-11", 3610, nil, 361},
		[]interface{}{"Geladeira", "2024-01-12", 600, 3, 6},
		[]interface{}{"Casa", "2024-01-13", 360000, nil, 360},
		[]interface{}{"Mesa", "2024-01-14", 90, "99999999999999999999", 2},
	)

	logger := logging.NewMockLogger()
	got := slices.Collect(New(logger).Transactions(sel))
	require.Len(t, got, 5)

	assert.Zero(t, got[0].TotalInstallments)
	assert.Zero(t, got[1].TotalInstallments)
	assert.Equal(t, 3, got[2].InstallmentNumber)
	assert.Equal(t, 6, got[2].TotalInstallments)
	assert.Equal(t, models.MaxInstallments, got[3].TotalInstallments)
	assert.Zero(t, got[4].InstallmentNumber)
	assert.Equal(t, 2, got[4].TotalInstallments)

	assert.Len(t, logger.EntriesByLevel("DEBUG"), 3)
	assert.True(t, logger.HasEntry("DEBUG", "Cell left unset"))
	assert.False(t, logger.HasEntry("DEBUG", "Dropping invalid row"))
}

func TestPlanning_IntegerOutOfRange(t *testing.T) {
	sel := selection(t, "Planejamento",
		[]interface{}{"Mês", "Ano", "Categoria", "Valor Estimado"},
		[]interface{}{1, "18446744073709553641", "Lazer", 200},
		[]interface{}{"4294967297", 2025, "Lazer", 200},
		[]interface{}{2, 2025, "Lazer", 200},
	)

	got := slices.Collect(New(nil).Planning(sel))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Month)
	assert.Equal(t, 2025, got[0].Year)
}
