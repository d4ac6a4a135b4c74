package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// SummaryItem is one labelled figure rendered above the table body.
type SummaryItem struct {
	Label string
	Value string
}

// Dataset defines tabular export content with an optional summary block.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Summary []SummaryItem
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes. Summary items come first as
// label/value records, separated from the table by a blank record.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if len(data.Summary) > 0 {
		for _, item := range data.Summary {
			if err := writer.Write([]string{item.Label, item.Value}); err != nil {
				return nil, fmt.Errorf("write csv summary: %w", err)
			}
		}
		if err := writer.Write([]string{""}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
	}

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
