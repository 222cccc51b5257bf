package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ReadMetrics loads the global metrics record. Numbers are kept as
// json.Number so integers stay integers.
func ReadMetrics(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metrics: %w", err)
	}
	return DecodeMetrics(data)
}

func DecodeMetrics(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var metrics map[string]any
	if err := dec.Decode(&metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if metrics == nil {
		return nil, fmt.Errorf("decode metrics: expected a JSON object")
	}
	return metrics, nil
}
