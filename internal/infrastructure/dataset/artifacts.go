package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"fairness-auditor/internal/domain/entity"
)

const MetricsKeysFile = "metrics_keys.txt"

// SortedFileName is the traceability copy of an attribute's table.
func SortedFileName(attribute entity.GroupKey) string {
	return string(attribute) + "_sorted.csv"
}

// WriteArtifacts writes, under dir, each table sorted by descending FPR and
// the sorted list of metric keys.
func WriteArtifacts(dir string, tables []entity.GroupRateTable, metrics map[string]any) error {
	for _, t := range tables {
		sorted := t
		sorted.Rows = SortByFPR(t.Rows)
		if err := WriteGroupTable(filepath.Join(dir, SortedFileName(t.Attribute)), sorted); err != nil {
			return fmt.Errorf("write sorted %s table: %w", t.Attribute, err)
		}
	}

	if metrics == nil {
		return nil
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return WriteFileAtomic(filepath.Join(dir, MetricsKeysFile), func(w io.Writer) error {
		for _, k := range keys {
			if _, err := fmt.Fprintln(w, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// SortByFPR returns a copy of rows ordered by descending FPR. Equal rates
// keep their order.
func SortByFPR(rows []entity.GroupRateRow) []entity.GroupRateRow {
	out := make([]entity.GroupRateRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FPR > out[j].FPR
	})
	return out
}
