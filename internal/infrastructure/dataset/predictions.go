// Package dataset reads the model evaluator's outputs and reads and writes
// group rate tables as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fairness-auditor/internal/domain/entity"
)

// Columns names the predictions table columns to read.
type Columns struct {
	TrueLabel string
	PredLabel string
	Groups    map[entity.GroupKey]string
}

func DefaultColumns() Columns {
	return Columns{
		TrueLabel: "y_true",
		PredLabel: "y_pred",
		Groups: map[entity.GroupKey]string{
			entity.GroupRace: "race",
			entity.GroupSex:  "sex",
		},
	}
}

func ReadPredictions(path string, cols Columns) ([]entity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer f.Close()

	return DecodePredictions(f, path, cols)
}

// DecodePredictions parses a predictions table. Every absent column is
// reported in a single *entity.MissingColumnError. Blank group cells leave
// the attribute unset on that record.
func DecodePredictions(r io.Reader, source string, cols Columns) ([]entity.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &entity.MissingColumnError{Source: source, Columns: cols.names()}
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", source, err)
	}
	index := headerIndex(header)

	var missing []string
	for _, name := range cols.names() {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &entity.MissingColumnError{Source: source, Columns: missing}
	}

	trueIdx, predIdx := index[cols.TrueLabel], index[cols.PredLabel]
	var records []entity.Record
	for row := 0; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", source, row+1, err)
		}

		yTrue, err := parseLabel(row, cell(fields, trueIdx))
		if err != nil {
			return nil, err
		}
		yPred, err := parseLabel(row, cell(fields, predIdx))
		if err != nil {
			return nil, err
		}

		rec := entity.Record{TrueLabel: yTrue, PredictedLabel: yPred, Groups: make(map[entity.GroupKey]string, len(cols.Groups))}
		for key, name := range cols.Groups {
			if v := cell(fields, index[name]); v != "" {
				rec.Groups[key] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// names lists the expected columns in a stable order.
func (c Columns) names() []string {
	names := []string{c.TrueLabel, c.PredLabel}
	for _, key := range []entity.GroupKey{entity.GroupRace, entity.GroupSex} {
		if name, ok := c.Groups[key]; ok {
			names = append(names, name)
		}
	}
	for key, name := range c.Groups {
		if key != entity.GroupRace && key != entity.GroupSex {
			names = append(names, name)
		}
	}
	return names
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return index
}

func cell(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// parseLabel accepts 0 and 1 written as integers or floats ("1.0").
func parseLabel(row int, raw string) (int, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || (v != 0 && v != 1) {
		return 0, &entity.InvalidLabelError{Index: row, Value: raw}
	}
	return int(v), nil
}
