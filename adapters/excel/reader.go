package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"uidlens/domain/core"
	"uidlens/domain/social"
)

const (
	emptyHeader = "__EMPTY"
	utf8BOM     = "\ufeff"
)

// DataReader turns uploaded spreadsheets into ordered rows
type DataReader struct{}

// NewDataReader creates a reader for xlsx/xlsm/xls and csv uploads
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read parses the first worksheet (or the CSV body) of an upload. The header
// row supplies the keys; empty cells are omitted and blank rows skipped.
func (r *DataReader) Read(ctx context.Context, name string, src io.Reader) ([]social.Row, error) {
	format, ok := FormatOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s (accepted: %s)", core.ErrUnsupportedFile, name, strings.Join(Accepted(), ", "))
	}

	start := time.Now()
	var (
		sheet *Sheet
		err   error
	)
	switch format {
	case FormatCSV:
		sheet, err = readCSV(src)
	default:
		sheet, err = readWorkbook(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := toRows(sheet)
	log.Printf("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		name, float64(time.Since(start).Nanoseconds())/1e6, len(sheet.Headers), len(rows))
	return rows, nil
}

// readWorkbook reads the first worksheet of an OOXML workbook
func readWorkbook(src io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptySheet
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return newSheet(sheets[0], grid)
}

func readCSV(src io.Reader) (*Sheet, error) {
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV body: %w", err)
	}
	body = bytes.TrimPrefix(body, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return newSheet("csv", grid)
}

func newSheet(name string, grid [][]string) (*Sheet, error) {
	if len(grid) == 0 {
		return nil, core.ErrEmptySheet
	}
	return &Sheet{
		Name:    name,
		Headers: Headers(grid[0]),
		Rows:    grid[1:],
	}, nil
}

// Headers trims and normalizes the header row. Empty headers become
// __EMPTY, __EMPTY_1, ...; repeats of a header get _1, _2, ... suffixes.
func Headers(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	empties := 0

	for i, h := range raw {
		h = norm.NFC.String(strings.TrimSpace(h))
		if h == "" {
			h = emptyHeader
			if empties > 0 {
				h = fmt.Sprintf("%s_%d", emptyHeader, empties)
			}
			empties++
		} else if n, seen := used[h]; seen {
			base := h
			for {
				n++
				h = fmt.Sprintf("%s_%d", base, n)
				if !taken[h] {
					break
				}
			}
			used[base] = n
		} else {
			used[h] = 0
		}
		taken[h] = true
		headers[i] = h
	}
	return headers
}

func toRows(sheet *Sheet) []social.Row {
	rows := make([]social.Row, 0, len(sheet.Rows))
	for _, cells := range sheet.Rows {
		var fields []social.Field
		for j, cell := range cells {
			if j >= len(sheet.Headers) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			fields = append(fields, social.Field{Key: sheet.Headers[j], Value: cell})
		}
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, social.NewRow(fields...))
	}
	return rows
}
