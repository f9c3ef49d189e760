// Package spreadsheet reads and writes single-sheet xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of xlsx files.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write renders one sheet with a header row. Values go through Cell.SetValue.
func Write(w io.Writer, sheetName string, headers []string, rows [][]any) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet %q: %w", sheetName, err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetValue(v)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Read returns the trimmed cell text of the first sheet, header row included.
func Read(r io.ReaderAt, size int64) ([][]string, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := file.Sheets[0]
	out := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			out = append(out, nil)
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if cell != nil {
				cells[i] = strings.TrimSpace(cell.String())
			}
		}
		out = append(out, cells)
	}
	return out, nil
}
