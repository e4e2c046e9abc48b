// Package importer handles the workbook import command
package importer

import (
	"fmt"
	"os"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/root"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/validation"
	"github.com/spf13/cobra"
)

var dryRun bool

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import transactions and plans from a workbook",
	Long: `Import transactions and monthly plans from an .xlsx workbook.

Unknown categories and accounts are created on the fly, once per name.
Purchases paid in several installments are stored as one transaction per month.
Rows missing a name, amount or date are skipped.

Example:
  financeiro import planilha.xlsx --user 1
  financeiro import planilha.xlsx --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the workbook and report what would be imported without saving")
}

func importFunc(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := validation.IsValidWorkbookFile(path); err != nil {
		return err
	}
	f, err := os.Open(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	engine := root.GetContainer().GetEngine()
	out := cmd.OutOrStdout()

	if dryRun {
		parsed, err := engine.Parse(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Transactions sheet: %s\n", orNone(parsed.TransactionsSheet))
		fmt.Fprintf(out, "Planning sheet: %s\n", orNone(parsed.PlanningSheet))
		fmt.Fprintf(out, "Valid transaction rows: %d\n", len(parsed.Transactions))
		fmt.Fprintf(out, "Valid planning rows: %d\n", len(parsed.Plans))
		return nil
	}

	userID, err := root.RequireUser()
	if err != nil {
		return err
	}

	root.Log.Info("Importing workbook",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldUser, userID))

	result, err := engine.Import(cmd.Context(), f, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Batch: %s\n", result.BatchID)
	fmt.Fprintf(out, "Rows imported: %d\n", result.RowsImported)
	fmt.Fprintf(out, "Transactions saved: %d\n", len(result.Transactions))
	fmt.Fprintf(out, "Plans saved: %d\n", len(result.Plans))
	fmt.Fprintf(out, "Categories created: %d\n", result.CategoriesCreated)
	fmt.Fprintf(out, "Accounts created: %d\n", result.AccountsCreated)
	return nil
}

func orNone(sheet string) string {
	if sheet == "" {
		return "(none)"
	}
	return sheet
}
