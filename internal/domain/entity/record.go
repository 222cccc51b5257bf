package entity

// GroupKey names a categorical attribute used to partition records.
type GroupKey string

const (
	GroupRace GroupKey = "race"
	GroupSex  GroupKey = "sex"
)

func (k GroupKey) String() string {
	return string(k)
}

// Record is one evaluated subject as produced by the model evaluator.
type Record struct {
	TrueLabel      int
	PredictedLabel int
	Groups         map[GroupKey]string
}

// Group returns the record's value for key and whether it is set.
func (r Record) Group(key GroupKey) (string, bool) {
	v, ok := r.Groups[key]
	return v, ok
}
