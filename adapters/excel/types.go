package excel

import (
	"path/filepath"
	"strings"
)

// Supported upload formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// extensions maps accepted file extensions to the parser that reads them.
// Legacy .xls is tried as OOXML; real BIFF workbooks fail to open.
var extensions = map[string]string{
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xls":  FormatXLSX,
	".csv":  FormatCSV,
}

// FormatOf returns the parser format for a file name
func FormatOf(name string) (string, bool) {
	format, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return format, ok
}

// Accepted lists the accepted extensions, for error messages and the UI
func Accepted() []string {
	return []string{".xls", ".xlsx", ".xlsm", ".csv"}
}

// Sheet is the raw grid read from a workbook or CSV file
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}
