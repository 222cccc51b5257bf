package digest

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"fairness-auditor/internal/domain/entity"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderFacts renders the global metrics and every attribute table.
func RenderFacts(d entity.FactualDigest) string {
	var b strings.Builder
	b.WriteString(factsHeader)
	writeGlobal(&b, d)
	for _, a := range d.Attributes {
		writeAttribute(&b, a)
	}
	return b.String()
}

// RenderAttributeFacts renders the global metrics and the table of a single
// attribute. Other attributes are left out.
func RenderAttributeFacts(d entity.FactualDigest, key entity.GroupKey) string {
	var b strings.Builder
	b.WriteString(factsHeader)
	writeGlobal(&b, d)
	if a, ok := d.Attribute(key); ok {
		writeAttribute(&b, a)
	} else {
		b.WriteString("- Table (" + string(key) + "): not available\n")
	}
	return b.String()
}

func writeGlobal(b *strings.Builder, d entity.FactualDigest) {
	summary := make(map[string]any, len(d.Global)+1)
	for k, v := range d.Global {
		summary[k] = v
	}
	summary["available_metric_keys"] = d.AvailableMetricKeys

	// map keys are marshalled in sorted order
	raw, err := json.Marshal(summary)
	if err != nil {
		raw = []byte("{}")
	}
	b.WriteString("- Global metrics (partial): ")
	b.Write(raw)
	b.WriteString("\n")
}

func writeAttribute(b *strings.Builder, a entity.AttributeDigest) {
	b.WriteString("- Table (" + string(a.Attribute) + ") sample:\n")
	b.WriteString(RenderRows(string(a.Attribute), a.Rows))
	b.WriteString("\n")
}

// RenderRows renders rows as a plain-text table with the group, N and the
// four rates.
func RenderRows(groupHeader string, rows []entity.GroupRateRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{
		groupHeader, entity.ColumnN, entity.ColumnFPR, entity.ColumnFNR, entity.ColumnTPR, entity.ColumnTNR,
	})
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.GroupValue, r.N, FormatRate(r.FPR), FormatRate(r.FNR), FormatRate(r.TPR), FormatRate(r.TNR),
		})
	}
	return tw.Render()
}

// FormatRate rounds a rate for presentation.
func FormatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', rateDecimals, 64)
}

// Numbers returns every numeric literal a rendered digest exposes, as the
// strings they are rendered with.
func Numbers(d entity.FactualDigest) []string {
	seen := make(map[string]struct{})
	add := func(s string) { seen[s] = struct{}{} }

	for _, v := range d.Global {
		switch v.Kind() {
		case entity.KindInt, entity.KindFloat:
			add(v.String())
		}
	}
	for _, a := range d.Attributes {
		for _, r := range a.Rows {
			add(strconv.Itoa(r.N))
			for _, rate := range []float64{r.FPR, r.FNR, r.TPR, r.TNR} {
				add(FormatRate(rate))
			}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
