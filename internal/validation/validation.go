// Package validation checks command-line inputs before any work starts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var workbookExtensions = []string{".xlsx", ".xlsm"}

// IsValidWorkbookFile checks that path names an existing regular file with a
// spreadsheet extension.
func IsValidWorkbookFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range workbookExtensions {
		if ext == want {
			return nil
		}
	}
	return fmt.Errorf("unsupported workbook extension %q: expected one of %s", ext, strings.Join(workbookExtensions, ", "))
}

// IsValidExportFormat checks if the given format is supported.
func IsValidExportFormat(format string) error {
	switch format {
	case FormatXLSX, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported format %q: supported formats are '%s', '%s'", format, FormatXLSX, FormatCSV)
	}
}
