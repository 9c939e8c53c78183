package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// RenderExcel writes the matrix as a styled spreadsheet: bold filled
// header row, bordered body cells and auto-sized columns.
func RenderExcel(w io.Writer, m Matrix, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	def := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Records"
	}
	f.SetSheetName(def, sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorders(),
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    cellBorders(),
	})
	if err != nil {
		return err
	}

	for i, h := range m.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for ri, row := range m.Rows {
		for ci, val := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(m.Headers))
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if len(m.Rows) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(m.Headers), len(m.Rows)+1)
		if err != nil {
			return err
		}
		if err = f.SetCellStyle(sheet, "A2", lastCell, bodyStyle); err != nil {
			return err
		}
	}

	// size each column to its widest cell
	for ci := range m.Headers {
		width := float64(len(m.Headers[ci]))
		for _, row := range m.Rows {
			if l := float64(len(row[ci])); l > width {
				width = l
			}
		}
		col, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		if err = f.SetColWidth(sheet, col, col, width+4); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func cellBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}
