package rates

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	itemColumn = "item"
	rateColumn = "rate"
)

type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Load(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv open: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV reads an item,rate table with a header row. Columns are located by
// header name, so extra columns and column order do not matter.
func ReadCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	itemIdx, rateIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom))) {
		case itemColumn:
			itemIdx = i
		case rateColumn:
			rateIdx = i
		}
	}
	if itemIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("csv header: missing %q or %q column", itemColumn, rateColumn)
	}

	var entries []Entry
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		if itemIdx >= len(record) || rateIdx >= len(record) {
			slog.Warn("skipping short csv row", "line", line, "fields", len(record))
			continue
		}

		entries = append(entries, Entry{
			Item: record[itemIdx],
			Rate: strings.TrimSpace(record[rateIdx]),
		})
	}

	return entries, nil
}
