package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Transcript"

// ExcelExporter writes a Table as a single-sheet xlsx workbook.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Export(data *Table, w io.Writer) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		cell := cellName(1, row)
		f.SetCellValue(sheetName, cell, data.Title)
		f.SetCellStyle(sheetName, cell, cell, titleStyle)
		row++
		if data.Description != "" {
			f.SetCellValue(sheetName, cellName(1, row), data.Description)
			row++
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: data.Style.FontSize, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripHash(data.Style.HeaderBgColor)}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	oddStyle, _ := rowStyle(f, data.Style, data.Style.RowBgColor1)
	evenStyle, _ := rowStyle(f, data.Style, data.Style.RowBgColor2)

	headerRow := row
	for col, header := range data.Headers {
		cell := cellName(col+1, row)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheetName, name, name, 12*data.weight(col))
	}
	row++

	for i, values := range data.Rows {
		style := oddStyle
		if i%2 == 1 {
			style = evenStyle
		}
		for col, v := range values {
			cell := cellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
			f.SetCellStyle(sheetName, cell, cell, style)
		}
		row++
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	})
	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	f.AutoFilter(sheetName, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, headerRow+len(data.Rows)), nil)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) FileExtension() string {
	return ".xlsx"
}

func rowStyle(f *excelize.File, style Style, bg string) (int, error) {
	s := &excelize.Style{
		Font:      &excelize.Font{Size: style.FontSize},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}
	if bg != "" && bg != "#FFFFFF" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripHash(bg)}}
	}
	return f.NewStyle(s)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func stripHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
