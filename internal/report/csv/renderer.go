package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.Format {
	return types.FormatCSV
}

func (r *Renderer) Render(doc *types.Document) ([]byte, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{doc.Title})
	csvRows = append(csvRows, []string{fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"))})

	for _, section := range doc.Sections {
		csvRows = append(csvRows, []string{""})
		csvRows = append(csvRows, []string{section.Title})
		if len(section.Headers) > 0 {
			csvRows = append(csvRows, section.Headers)
		}
		csvRows = append(csvRows, section.Rows...)
	}

	return convertRowsToCSV(csvRows)
}

func convertRowsToCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
