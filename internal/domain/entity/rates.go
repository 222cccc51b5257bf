package entity

// Column names of a serialized group rate table, after the group column.
const (
	ColumnN           = "N"
	ColumnTP          = "TP"
	ColumnTN          = "TN"
	ColumnFP          = "FP"
	ColumnFN          = "FN"
	ColumnTPR         = "TPR"
	ColumnFPR         = "FPR"
	ColumnFNR         = "FNR"
	ColumnTNR         = "TNR"
	ColumnFPRGapVsMin = "FPR_gap_vs_min"
	ColumnFNRGapVsMin = "FNR_gap_vs_min"

	ColumnGroupValue = "group_value"
)

// RateColumns is the serialized column order following the group column.
var RateColumns = []string{
	ColumnN, ColumnTP, ColumnTN, ColumnFP, ColumnFN,
	ColumnTPR, ColumnFPR, ColumnFNR, ColumnTNR,
	ColumnFPRGapVsMin, ColumnFNRGapVsMin,
}

// RateSet holds confusion-matrix counts and the rates derived from them.
// A rate whose denominator is zero is 0.
type RateSet struct {
	TP  int     `json:"TP"`
	TN  int     `json:"TN"`
	FP  int     `json:"FP"`
	FN  int     `json:"FN"`
	TPR float64 `json:"TPR"`
	FPR float64 `json:"FPR"`
	FNR float64 `json:"FNR"`
	TNR float64 `json:"TNR"`
}

func (r RateSet) Total() int {
	return r.TP + r.TN + r.FP + r.FN
}

type GroupRateRow struct {
	GroupValue string `json:"group_value"`
	N          int    `json:"N"`
	RateSet
	FPRGapVsMin float64 `json:"FPR_gap_vs_min"`
	FNRGapVsMin float64 `json:"FNR_gap_vs_min"`
}

// GroupRateTable has one row per distinct value of Attribute, ordered by
// descending N with ties broken by ascending group value.
//
// Columns is nil for tables computed in process. Tables read from an external
// file record which columns the file actually carried.
type GroupRateTable struct {
	Attribute GroupKey       `json:"attribute"`
	Rows      []GroupRateRow `json:"rows"`
	Columns   []string       `json:"-"`
}

// HasColumn reports whether the table carries the named column.
func (t GroupRateTable) HasColumn(name string) bool {
	if t.Columns == nil {
		return true
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t GroupRateTable) Empty() bool {
	return len(t.Rows) == 0
}
