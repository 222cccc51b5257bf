package entity

import (
	"encoding/json"
	"math"
	"strconv"
)

type PrimitiveKind int

const (
	KindInvalid PrimitiveKind = iota
	KindInt
	KindFloat
	KindString
	KindBool
)

// PrimitiveValue is an int, float, string or bool metric value. The zero
// value is invalid.
type PrimitiveValue struct {
	kind PrimitiveKind
	i    int64
	f    float64
	s    string
	b    bool
}

func IntValue(v int64) PrimitiveValue { return PrimitiveValue{kind: KindInt, i: v} }
func FloatValue(v float64) PrimitiveValue { return PrimitiveValue{kind: KindFloat, f: v} }
func StringValue(v string) PrimitiveValue { return PrimitiveValue{kind: KindString, s: v} }
func BoolValue(v bool) PrimitiveValue { return PrimitiveValue{kind: KindBool, b: v} }
func (p PrimitiveValue) Kind() PrimitiveKind { return p.kind }
func (p PrimitiveValue) Valid() bool { return p.kind != KindInvalid }

// PrimitiveFromAny converts a decoded JSON value. Objects, arrays, nulls and
// non-finite numbers are not primitive.
func PrimitiveFromAny(v any) (PrimitiveValue, bool) {
	switch x := v.(type) {
	case bool:
		return BoolValue(x), true
	case string:
		return StringValue(x), true
	case int:
		return IntValue(int64(x)), true
	case int64:
		return IntValue(x), true
	case int32:
		return IntValue(int64(x)), true
	case float32:
		return finiteFloat(float64(x))
	case float64:
		return finiteFloat(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), true
		}
		f, err := x.Float64()
		if err != nil {
			return PrimitiveValue{}, false
		}
		return finiteFloat(f)
	default:
		return PrimitiveValue{}, false
	}
}

func finiteFloat(f float64) (PrimitiveValue, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return PrimitiveValue{}, false
	}
	return FloatValue(f), true
}

// Any returns the underlying Go value.
func (p PrimitiveValue) Any() any {
	switch p.kind {
	case KindInt:
		return p.i
	case KindFloat:
		return p.f
	case KindString:
		return p.s
	case KindBool:
		return p.b
	default:
		return nil
	}
}

func (p PrimitiveValue) String() string {
	switch p.kind {
	case KindInt:
		return strconv.FormatInt(p.i, 10)
	case KindFloat:
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case KindString:
		return p.s
	case KindBool:
		return strconv.FormatBool(p.b)
	default:
		return ""
	}
}

func (p PrimitiveValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Any())
}

func (p *PrimitiveValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, ok := PrimitiveFromAny(raw)
	if !ok {
		return &json.UnsupportedValueError{Str: string(data)}
	}
	if v.kind == KindFloat && v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<53 {
		v = IntValue(int64(v.f))
	}
	*p = v
	return nil
}

// AttributeDigest is the slice of one group table exposed to generation.
type AttributeDigest struct {
	Attribute GroupKey       `json:"attribute"`
	Rows      []GroupRateRow `json:"rows"`
}

// FactualDigest is everything a generation call is allowed to see.
type FactualDigest struct {
	Global              map[string]PrimitiveValue `json:"global_metrics"`
	AvailableMetricKeys []string                  `json:"available_metric_keys"`
	Attributes          []AttributeDigest         `json:"attributes"`
}

// Attribute returns the digest slice for key.
func (d FactualDigest) Attribute(key GroupKey) (AttributeDigest, bool) {
	for _, a := range d.Attributes {
		if a.Attribute == key {
			return a, true
		}
	}
	return AttributeDigest{}, false
}
