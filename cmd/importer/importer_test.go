package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/root"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	root.Cmd.AddCommand(Cmd)
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Gastos"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Gastos", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

var sampleRows = [][]any{
	{"Nome", "Data", "Valor", "Tipo", "Categoria", "Parcelas"},
	{"Notebook", "2024-01-31", 300, "EXPENSE", "Eletrônicos", 3},
	{"Salário", "2024-02-05", 5000, "INCOME", "", ""},
	{"", "2024-02-06", 10, "EXPENSE", "", ""},
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestImportCommand_Metadata(t *testing.T) {
	assert.Contains(t, Cmd.Use, "import")
	assert.Contains(t, Cmd.Long, "Example")
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("dry-run"))
}

func TestImport_SavesRows(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FINANCEIRO_STORE_DRIVER", "memory")
	writeWorkbook(t, filepath.Join(dir, "planilha.xlsx"), sampleRows)

	out, err := execute(t, "import", "planilha.xlsx", "--user", "1", "--dry-run=false")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Rows imported: 2")
	assert.Contains(t, out, "Transactions saved: 4")
	assert.Contains(t, out, "Categories created: 1")
	assert.Contains(t, out, "Accounts created: 0")
}

func TestImport_DryRunDoesNotRequireUser(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FINANCEIRO_STORE_DRIVER", "memory")
	writeWorkbook(t, filepath.Join(dir, "planilha.xlsx"), sampleRows)

	out, err := execute(t, "import", "planilha.xlsx", "--dry-run", "--user", "0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transactions sheet: Gastos")
	assert.Contains(t, out, "Planning sheet: (none)")
	assert.Contains(t, out, "Valid transaction rows: 2")
	assert.Contains(t, out, "Valid planning rows: 0")
}

func TestImport_RequiresUser(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FINANCEIRO_STORE_DRIVER", "memory")
	writeWorkbook(t, filepath.Join(dir, "planilha.xlsx"), sampleRows)

	_, err := execute(t, "import", "planilha.xlsx", "--user", "0", "--dry-run=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user")
}

func TestImport_RejectsNonWorkbook(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FINANCEIRO_STORE_DRIVER", "memory")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	_, err := execute(t, "import", "notes.txt", "--user", "1", "--dry-run=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported workbook extension")

	_, err = execute(t, "import", "missing.xlsx", "--user", "1", "--dry-run=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}
