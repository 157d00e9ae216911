package typai

import (
	json "github.com/goccy/go-json"
	"github.com/titanous/json5"
)

// ParseTolerant parses text as JSON, falling back to JSON5 so that trailing
// commas, single quotes and bare keys are accepted. Numbers decode as float64.
func ParseTolerant(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, nil
	}
	var v5 any
	if err := json5.Unmarshal([]byte(text), &v5); err != nil {
		return nil, err
	}
	return v5, nil
}
