// Package export handles the workbook export command
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/root"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/validation"
	"github.com/spf13/cobra"
)

var (
	output string
	format string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's transactions and plans",
	Long: `Export a user's transactions and monthly plans.

The xlsx format writes a two-sheet workbook that can be imported again.
The csv format writes the transactions only, using the configured delimiter.

Example:
  financeiro export --user 1 -o financeiro.xlsx
  financeiro export --user 1 --format csv -o -`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default financeiro.<format>)")
	Cmd.Flags().StringVarP(&format, "format", "f", validation.FormatXLSX, "Output format: xlsx or csv")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidExportFormat(format); err != nil {
		return err
	}
	userID, err := root.RequireUser()
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = "financeiro." + format
	}

	var w io.Writer
	if path == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(path) // #nosec G304 -- user-supplied output file
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	engine := root.GetContainer().GetEngine()
	if format == validation.FormatCSV {
		err = engine.ExportCSV(cmd.Context(), w, userID)
	} else {
		err = engine.Export(cmd.Context(), w, userID)
	}
	if err != nil {
		return err
	}

	root.Log.Info("Export written",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldFormat, format))
	return nil
}
