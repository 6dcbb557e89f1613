// =============================================================================
// PO3 Payment File Generator - CSV Row Adapter
// =============================================================================
//
// This module is the untyped-row adapter boundary: it reads a CSV export of
// claim rows into header-keyed RawRows and nothing more. All constraint
// checking happens in the validation module; unvalidated data never reaches
// the record formatters.
//
// Row numbers are positions in the source file (the header row is row 1) so
// validation reports point at the row the operator sees in the sheet.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/klubbkassan/po3-generator/internal/types"
)

// Load reads a CSV file into raw rows. The first row is the header; every
// following row becomes one RawRow keyed by header.
func Load(filePath string) ([]types.RawRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))

	// Claim exports occasionally have ragged rows and loose quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", filePath)
	}

	headers := allRows[0]
	rows := make([]types.RawRow, 0, len(allRows)-1)

	for i, record := range allRows[1:] {
		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(record) {
				fields[header] = record[col]
			} else {
				fields[header] = ""
			}
		}
		rows = append(rows, types.RawRow{
			Number:     i + 2, // header row is 1
			SourceFile: filePath,
			Fields:     fields,
		})
	}

	return rows, nil
}
