package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"RSIRelative/internal/model"
)

const (
	ColumnSymbol = "Symbol"
	ColumnIndex  = "Index"
)

// CSVSource reads a delimited file with Symbol and Index header columns.
type CSVSource struct {
	Path  string
	Comma rune
}

// NewCSVSource creates a comma-separated source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, Comma: ','}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Load(_ context.Context) ([]model.Equity, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, s.Comma)
}

// ReadCSV parses rows from r. Extra columns are ignored; rows without a
// symbol are skipped.
func ReadCSV(r io.Reader, comma rune) ([]model.Equity, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: empty input: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	symCol, idxCol := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case ColumnSymbol:
			symCol = i
		case ColumnIndex:
			idxCol = i
		}
	}
	if symCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnSymbol)
	}
	if idxCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnIndex)
	}

	var rows []model.Equity
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		sym := field(rec, symCol)
		if sym == "" {
			log.Printf("[WARN] input line %d has no symbol, skipped", line)
			continue
		}
		rows = append(rows, model.Equity{Symbol: strings.ToUpper(sym), Index: field(rec, idxCol)})
	}
	return rows, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
