package transfer

import (
	"bytes"
	"fmt"

	"github.com/amoylab/assocmanager/internal/apiserver/dues"
	"github.com/xuri/excelize/v2"
)

// StatisticsXLSX renders the year statistics as a workbook with a frozen
// header row and a totals row
func StatisticsXLSX(year int, rows []StatRow) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close runs at the end

	sheetName := fmt.Sprintf("Statistiques %d", year)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range StatisticsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "C", "F", 16); err != nil {
		f.Close()
		return nil, err
	}

	var due, paid float64
	for i, r := range rows {
		row := i + 2
		values := []any{r.Name, r.CustomFieldValue, r.Due, r.Paid, r.Remaining, FormatPercentage(r.Percentage)}
		for col, v := range values {
			if err := setCellValue(f, sheetName, col+1, row, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell at row %d: %w", row, err)
			}
		}
		due += r.Due
		paid += r.Paid
	}

	totalRow := len(rows) + 2
	totals := []any{"Total", "", due, paid, due - paid, FormatPercentage(dues.Percentage(paid, due))}
	for col, v := range totals {
		if err := setCellValue(f, sheetName, col+1, totalRow, v); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
