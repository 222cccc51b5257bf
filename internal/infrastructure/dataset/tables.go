package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"fairness-auditor/internal/domain/entity"
)

// WriteGroupTable writes table to path as CSV. The first column is named
// after the attribute.
func WriteGroupTable(path string, table entity.GroupRateTable) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeGroupTable(w, table)
	})
}

func EncodeGroupTable(w io.Writer, table entity.GroupRateTable) error {
	cw := csv.NewWriter(w)

	header := append([]string{string(table.Attribute)}, entity.RateColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range table.Rows {
		record := []string{
			r.GroupValue,
			strconv.Itoa(r.N),
			strconv.Itoa(r.TP),
			strconv.Itoa(r.TN),
			strconv.Itoa(r.FP),
			strconv.Itoa(r.FN),
			formatFloat(r.TPR),
			formatFloat(r.FPR),
			formatFloat(r.FNR),
			formatFloat(r.TNR),
			formatFloat(r.FPRGapVsMin),
			formatFloat(r.FNRGapVsMin),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %q: %w", r.GroupValue, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadGroupTable(path string, attribute entity.GroupKey) (entity.GroupRateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.GroupRateTable{}, fmt.Errorf("open group table: %w", err)
	}
	defer f.Close()

	return DecodeGroupTable(f, path, attribute)
}

// DecodeGroupTable reads a group table written by this package or by another
// producer. The group column is the one named after the attribute, else
// group_value, else the last column that is not a metric. Metric columns
// the file lacks read as zero and are left out of the table's Columns.
func DecodeGroupTable(r io.Reader, source string, attribute entity.GroupKey) (entity.GroupRateTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return entity.GroupRateTable{}, fmt.Errorf("read header of %s: %w", source, err)
	}
	index := headerIndex(header)

	groupIdx, ok := groupColumn(header, index, attribute)
	if !ok {
		return entity.GroupRateTable{}, &entity.MissingColumnError{Source: source, Columns: []string{string(attribute)}}
	}

	table := entity.GroupRateTable{Attribute: attribute, Rows: []entity.GroupRateRow{}, Columns: []string{}}
	for _, name := range entity.RateColumns {
		if _, ok := index[name]; ok {
			table.Columns = append(table.Columns, name)
		}
	}

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.GroupRateTable{}, fmt.Errorf("read %s row %d: %w", source, row, err)
		}

		p := rowParser{fields: fields, index: index, source: source, row: row}
		out := entity.GroupRateRow{
			GroupValue: cell(fields, groupIdx),
			N:          p.int(entity.ColumnN),
			RateSet: entity.RateSet{
				TP:  p.int(entity.ColumnTP),
				TN:  p.int(entity.ColumnTN),
				FP:  p.int(entity.ColumnFP),
				FN:  p.int(entity.ColumnFN),
				TPR: p.float(entity.ColumnTPR),
				FPR: p.float(entity.ColumnFPR),
				FNR: p.float(entity.ColumnFNR),
				TNR: p.float(entity.ColumnTNR),
			},
			FPRGapVsMin: p.float(entity.ColumnFPRGapVsMin),
			FNRGapVsMin: p.float(entity.ColumnFNRGapVsMin),
		}
		if p.err != nil {
			return entity.GroupRateTable{}, p.err
		}
		table.Rows = append(table.Rows, out)
	}
	return table, nil
}

func groupColumn(header []string, index map[string]int, attribute entity.GroupKey) (int, bool) {
	if i, ok := index[string(attribute)]; ok {
		return i, true
	}
	if i, ok := index[entity.ColumnGroupValue]; ok {
		return i, true
	}

	metrics := make(map[string]bool, len(entity.RateColumns))
	for _, c := range entity.RateColumns {
		metrics[c] = true
	}
	for i := len(header) - 1; i >= 0; i-- {
		if name := cell(header, i); name != "" && !metrics[name] {
			return i, true
		}
	}
	return 0, false
}

// rowParser keeps the first parse error of a row.
type rowParser struct {
	fields []string
	index  map[string]int
	source string
	row    int
	err    error
}

func (p *rowParser) float(column string) float64 {
	i, ok := p.index[column]
	if !ok || p.err != nil {
		return 0
	}
	raw := cell(p.fields, i)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = fmt.Errorf("%s row %d column %s: %w", p.source, p.row, column, err)
		return 0
	}
	return v
}

// int accepts integral floats such as "12.0".
func (p *rowParser) int(column string) int {
	v := p.float(column)
	if p.err == nil && v != float64(int(v)) {
		p.err = fmt.Errorf("%s row %d column %s: %v is not a count", p.source, p.row, column, v)
		return 0
	}
	return int(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
