// Package digest builds the factual snapshot that generation calls are
// allowed to see, and renders it into prompt text.
package digest

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"fairness-auditor/internal/domain/entity"

	"github.com/xeipuuv/gojsonschema"
)

const (
	DefaultTopK   = 6
	maxMetricKeys = 50
	rateDecimals  = 4
	factsHeader   = "EXPERIMENT FACTS (use only these; do not invent numbers):\n"
)

// GlobalMetricKeys are the metrics copied into a digest when present.
var GlobalMetricKeys = []string{
	"model", "accuracy", "precision", "recall", "f1", "split", "train_size", "test_size",
}

//go:embed digest.schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// FilterMetrics keeps the whitelisted keys whose values are primitive. When
// none of the whitelisted keys is present it falls back to every primitive
// top-level key. Nested values never pass.
func FilterMetrics(metrics map[string]any) map[string]entity.PrimitiveValue {
	out := make(map[string]entity.PrimitiveValue)
	for _, key := range GlobalMetricKeys {
		raw, ok := metrics[key]
		if !ok {
			continue
		}
		if v, ok := entity.PrimitiveFromAny(raw); ok {
			out[key] = v
		}
	}
	if len(out) > 0 || hasAnyKey(metrics, GlobalMetricKeys) {
		return out
	}

	for key, raw := range metrics {
		if v, ok := entity.PrimitiveFromAny(raw); ok {
			out[key] = v
		}
	}
	return out
}

func hasAnyKey(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// primitiveKeys lists, sorted, the keys of metrics holding primitive values.
func primitiveKeys(metrics map[string]any) []string {
	keys := make([]string, 0, len(metrics))
	for k, v := range metrics {
		if _, ok := entity.PrimitiveFromAny(v); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > maxMetricKeys {
		keys = keys[:maxMetricKeys]
	}
	return keys
}

// TopRows returns up to k rows of table ranked by descending FPR. Tables
// without an FPR column keep their own order.
func TopRows(table entity.GroupRateTable, k int) []entity.GroupRateRow {
	if k <= 0 {
		k = DefaultTopK
	}
	rows := make([]entity.GroupRateRow, len(table.Rows))
	copy(rows, table.Rows)

	if table.HasColumn(entity.ColumnFPR) {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].FPR > rows[j].FPR
		})
	}
	if len(rows) > k {
		rows = rows[:k]
	}
	return rows
}

// Build assembles the digest from global metrics and the two group tables.
// The result is checked against the digest schema before it is returned.
func Build(metrics map[string]any, race, sex entity.GroupRateTable, topK int) (entity.FactualDigest, error) {
	d := entity.FactualDigest{
		Global:              FilterMetrics(metrics),
		AvailableMetricKeys: primitiveKeys(metrics),
		Attributes: []entity.AttributeDigest{
			{Attribute: attributeName(race, entity.GroupRace), Rows: TopRows(race, topK)},
			{Attribute: attributeName(sex, entity.GroupSex), Rows: TopRows(sex, topK)},
		},
	}
	if err := Validate(d); err != nil {
		return entity.FactualDigest{}, err
	}
	return d, nil
}

func attributeName(t entity.GroupRateTable, fallback entity.GroupKey) entity.GroupKey {
	if t.Attribute == "" {
		return fallback
	}
	return t.Attribute
}

// Validate checks the serialized digest against the embedded schema.
func Validate(d entity.FactualDigest) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(d))
	if err != nil {
		return fmt.Errorf("validate digest: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("digest does not match schema: %s", strings.Join(msgs, "; "))
}
