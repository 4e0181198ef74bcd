package export

import (
	"bytes"
	"fmt"
)

// Service picks the exporter for a Format.
type Service struct {
	exporters map[Format]Exporter
}

func NewService() *Service {
	return &Service{
		exporters: map[Format]Exporter{
			FormatPDF:   NewPDFExporter(),
			FormatExcel: NewExcelExporter(),
		},
	}
}

// Export renders data and returns the file body, its content type and its
// file extension.
func (s *Service) Export(data *Table, format Format) ([]byte, string, string, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, "", "", fmt.Errorf("%s export failed: %w", format, err)
	}
	return buf.Bytes(), exporter.ContentType(), exporter.FileExtension(), nil
}
