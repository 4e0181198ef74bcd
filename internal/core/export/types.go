package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format is the file format of an exported transcript.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
)

// ParseFormat accepts "pdf", "xlsx" and the alias "excel". Empty means pdf.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

type Exporter interface {
	Export(data *Table, w io.Writer) error
	ContentType() string
	FileExtension() string
}

// Table is a titled grid of text cells.
type Table struct {
	Title       string
	Description string
	CreatedAt   time.Time

	Headers []string
	Rows    [][]string

	// ColumnWidths are relative weights, one per header. Missing or zero
	// weights count as 1.
	ColumnWidths []float64

	Style Style
}

type Style struct {
	HeaderBgColor string
	RowBgColor1   string
	RowBgColor2   string
	FontSize      float64
	Landscape     bool
}

func DefaultStyle() Style {
	return Style{
		HeaderBgColor: "#4472C4",
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		FontSize:      9,
	}
}

func (t *Table) weight(col int) float64 {
	if col < len(t.ColumnWidths) && t.ColumnWidths[col] > 0 {
		return t.ColumnWidths[col]
	}
	return 1
}

func (t *Table) totalWeight() float64 {
	var sum float64
	for i := range t.Headers {
		sum += t.weight(i)
	}
	return sum
}
