package jsonschema

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_MarshalKeepsPropertyOrder(t *testing.T) {
	s := &Schema{
		Type: "object",
		Properties: []Property{
			{Name: "zeta", Schema: &Schema{Type: "string"}},
			{Name: "alpha", Schema: &Schema{Type: "number"}},
		},
		Required: []string{"zeta"},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"number"}},"required":["zeta"]}`, string(b))
}

func TestSchema_ExtraOverridesAndSorts(t *testing.T) {
	s := &Schema{
		Type:  "number",
		Extra: map[string]any{"type": "integer", "minimum": 0, "description": "count"},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"integer","description":"count","minimum":0}`, string(b))
}

func TestSchema_ConstAndEmptyObject(t *testing.T) {
	b, err := json.Marshal(&Schema{Const: nil, HasConst: true})
	require.NoError(t, err)
	assert.Equal(t, `{"const":null}`, string(b))

	b, err = json.Marshal(&Schema{Type: "object", Properties: []Property{}, Required: []string{}})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object","properties":{},"required":[]}`, string(b))
}

func TestSchema_Map(t *testing.T) {
	f := false
	s := &Schema{
		Type:                 "object",
		Properties:           []Property{{Name: "xs", Schema: &Schema{Type: "array", Items: &Schema{Type: "string"}}}},
		AdditionalProperties: &f,
		OneOf:                nil,
	}
	m, err := s.Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"xs": map[string]any{"type": "array", "items": map[string]any{"type": "string"}}},
		"additionalProperties": false,
	}, m)

	ps, ok := s.Property("xs")
	require.True(t, ok)
	assert.Equal(t, "array", ps.Type)
}
