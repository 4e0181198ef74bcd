package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLineHeight   = 4.5
	pdfMargin       = 12.0
	maxLinesPerCell = 40
)

// PDFExporter renders a Table with wrapped cells, repeating the header row on
// every page. Text is translated to cp1252 for the core fonts.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (p *PDFExporter) Export(data *Table, w io.Writer) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	orientation := "P"
	if data.Style.Landscape {
		orientation = "L"
	}
	fontSize := data.Style.FontSize
	if fontSize <= 0 {
		fontSize = 9
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(data.Title), "", 1, "L", false, 0, "")
	}
	if data.Description != "" {
		pdf.SetFont("Arial", "", fontSize)
		pdf.MultiCell(0, pdfLineHeight, tr(data.Description), "", "L", false)
	}
	if !data.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, "Generated: "+data.CreatedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin
	widths := make([]float64, len(data.Headers))
	total := data.totalWeight()
	for i := range widths {
		widths[i] = usable * data.weight(i) / total
	}

	header := func() {
		pdf.SetFont("Arial", "B", fontSize)
		r, g, b := hexToRGB(data.Style.HeaderBgColor)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
	}
	header()

	for rowIdx, values := range data.Rows {
		lines := make([][]string, len(widths))
		height := pdfLineHeight
		for i := range widths {
			var cell string
			if i < len(values) {
				cell = values[i]
			}
			for _, l := range pdf.SplitLines([]byte(tr(cell)), widths[i]-2) {
				lines[i] = append(lines[i], string(l))
			}
			if len(lines[i]) > maxLinesPerCell {
				lines[i] = append(lines[i][:maxLinesPerCell-1], "...")
			}
			if h := float64(len(lines[i])) * pdfLineHeight; h > height {
				height = h
			}
		}

		if pdf.GetY()+height > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}

		bg := data.Style.RowBgColor1
		if rowIdx%2 == 1 {
			bg = data.Style.RowBgColor2
		}
		r, g, b := hexToRGB(bg)
		pdf.SetFillColor(r, g, b)

		x, y := pdf.GetXY()
		for i, cw := range widths {
			pdf.Rect(x, y, cw, height, "FD")
			for n, l := range lines[i] {
				pdf.SetXY(x+1, y+float64(n)*pdfLineHeight)
				pdf.CellFormat(cw-2, pdfLineHeight, l, "", 0, "L", false, 0, "")
			}
			x += cw
		}
		pdf.SetXY(pdfMargin, y+height)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) ContentType() string {
	return "application/pdf"
}

func (p *PDFExporter) FileExtension() string {
	return ".pdf"
}

// hexToRGB parses "#RRGGBB", defaulting to white.
func hexToRGB(hex string) (int, int, int) {
	hex = stripHash(hex)
	if len(hex) != 6 {
		return 255, 255, 255
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
