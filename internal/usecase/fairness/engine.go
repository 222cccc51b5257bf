// Package fairness computes confusion-matrix rates per group and the
// disparity of each group against the best-performing one.
//
// Everything here is pure: functions own no state and are safe to call
// concurrently on independent inputs.
package fairness

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"fairness-auditor/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// ComputeConfusionRates counts TP, TN, FP and FN over paired labels and
// derives TPR, FPR, FNR and TNR. A rate with a zero denominator is 0.
func ComputeConfusionRates(trueLabels, predLabels []int) (entity.RateSet, error) {
	if len(trueLabels) != len(predLabels) {
		return entity.RateSet{}, &entity.InvalidLabelError{
			Reason: fmt.Sprintf("length mismatch: %d true labels, %d predicted labels", len(trueLabels), len(predLabels)),
		}
	}

	var rs entity.RateSet
	for i := range trueLabels {
		t, p := trueLabels[i], predLabels[i]
		if !isBinary(t) {
			return entity.RateSet{}, &entity.InvalidLabelError{Index: i, Value: strconv.Itoa(t)}
		}
		if !isBinary(p) {
			return entity.RateSet{}, &entity.InvalidLabelError{Index: i, Value: strconv.Itoa(p)}
		}

		switch {
		case t == 1 && p == 1:
			rs.TP++
		case t == 0 && p == 0:
			rs.TN++
		case t == 0 && p == 1:
			rs.FP++
		default:
			rs.FN++
		}
	}

	rs.FPR = ratio(rs.FP, rs.FP+rs.TN)
	rs.FNR = ratio(rs.FN, rs.FN+rs.TP)
	rs.TPR = ratio(rs.TP, rs.TP+rs.FN)
	rs.TNR = ratio(rs.TN, rs.TN+rs.FP)

	return rs, nil
}

type options struct {
	filter func(entity.Record) bool
}

type Option func(*options)

// WithFilter keeps only the records for which keep returns true. A filter
// that removes every record yields a table with no rows, not an error.
func WithFilter(keep func(entity.Record) bool) Option {
	return func(o *options) {
		o.filter = keep
	}
}

type partition struct {
	trueLabels []int
	predLabels []int
}

// ComputeGroupTable partitions records by their value for attribute and
// computes one row per partition. Records that do not carry the attribute
// are left out. Gaps are derived only after every row exists.
func ComputeGroupTable(records []entity.Record, attribute entity.GroupKey, opts ...Option) (entity.GroupRateTable, error) {
	if len(records) == 0 {
		return entity.GroupRateTable{}, &entity.EmptyGroupError{Attribute: attribute}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parts := make(map[string]*partition)
	for _, rec := range records {
		if o.filter != nil && !o.filter(rec) {
			continue
		}
		value, ok := rec.Group(attribute)
		if !ok {
			continue
		}
		p, ok := parts[value]
		if !ok {
			p = &partition{}
			parts[value] = p
		}
		p.trueLabels = append(p.trueLabels, rec.TrueLabel)
		p.predLabels = append(p.predLabels, rec.PredictedLabel)
	}

	rows := make([]entity.GroupRateRow, 0, len(parts))
	for value, p := range parts {
		rs, err := ComputeConfusionRates(p.trueLabels, p.predLabels)
		if err != nil {
			return entity.GroupRateTable{}, fmt.Errorf("group %s=%q: %w", attribute, value, err)
		}
		rows = append(rows, entity.GroupRateRow{
			GroupValue: value,
			N:          len(p.trueLabels),
			RateSet:    rs,
		})
	}

	SortRows(rows)
	ApplyGaps(rows)

	return entity.GroupRateTable{Attribute: attribute, Rows: rows}, nil
}

// ComputeGroupTables builds one table per attribute concurrently. Tables are
// returned in the order the attributes were given.
func ComputeGroupTables(ctx context.Context, records []entity.Record, attributes ...entity.GroupKey) ([]entity.GroupRateTable, error) {
	tables := make([]entity.GroupRateTable, len(attributes))
	g, ctx := errgroup.WithContext(ctx)

	for i, attr := range attributes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := ComputeGroupTable(records, attr)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// SortRows orders rows by descending N, then ascending group value.
func SortRows(rows []entity.GroupRateRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].N != rows[j].N {
			return rows[i].N > rows[j].N
		}
		return rows[i].GroupValue < rows[j].GroupValue
	})
}

// ApplyGaps sets FPRGapVsMin and FNRGapVsMin from the minimum FPR and FNR
// across all of rows. It must be called on the complete table.
func ApplyGaps(rows []entity.GroupRateRow) {
	if len(rows) == 0 {
		return
	}

	minFPR, minFNR := rows[0].FPR, rows[0].FNR
	for _, r := range rows[1:] {
		minFPR = min(minFPR, r.FPR)
		minFNR = min(minFNR, r.FNR)
	}

	for i := range rows {
		rows[i].FPRGapVsMin = rows[i].FPR - minFPR
		rows[i].FNRGapVsMin = rows[i].FNR - minFNR
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}

func isBinary(label int) bool {
	return label == 0 || label == 1
}
