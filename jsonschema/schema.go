package jsonschema

import (
	"bytes"
	"sort"

	json "github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema representation used for export.
// Properties keep declaration order; Extra holds annotations that are merged
// verbatim into the output and win over the typed fields on key conflicts.
type Schema struct {
	// Core
	Type  string `json:"type,omitempty"`
	Const any    `json:"-"`
	// HasConst distinguishes a null const from no const.
	HasConst bool     `json:"-"`
	Enum     []string `json:"enum,omitempty"`

	// Object
	Properties           []Property `json:"-"`
	Required             []string   `json:"required,omitempty"`
	AdditionalProperties *bool      `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`

	Extra map[string]any `json:"-"`
}

// Property is a named entry of Schema.Properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Property returns the schema of a named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

type member struct {
	key string
	val any
}

func (s *Schema) members() []member {
	var ms []member
	add := func(k string, v any) {
		if ev, ok := s.Extra[k]; ok {
			v = ev
		}
		ms = append(ms, member{k, v})
	}
	if s.Type != "" {
		add("type", s.Type)
	}
	if s.HasConst {
		add("const", s.Const)
	}
	if len(s.Enum) > 0 {
		add("enum", s.Enum)
	}
	if s.Properties != nil {
		add("properties", orderedProps(s.Properties))
	}
	if s.Required != nil {
		add("required", s.Required)
	}
	if s.AdditionalProperties != nil {
		add("additionalProperties", *s.AdditionalProperties)
	}
	if s.Items != nil {
		add("items", s.Items)
	}
	if len(s.OneOf) > 0 {
		add("oneOf", s.OneOf)
	}
	emitted := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		emitted[m.key] = struct{}{}
	}
	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		if _, ok := emitted[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		ms = append(ms, member{k, s.Extra[k]})
	}
	return ms
}

// MarshalJSON writes typed fields first in a fixed order, then the remaining
// annotations sorted by key.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return writeObject(s.members())
}

// Map converts the schema into a generic map, as expected by provider SDKs.
func (s *Schema) Map() (map[string]any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type orderedProps []Property

func (ps orderedProps) MarshalJSON() ([]byte, error) {
	ms := make([]member, len(ps))
	for i, p := range ps {
		ms[i] = member{p.Name, p.Schema}
	}
	return writeObject(ms)
}

func writeObject(ms []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range ms {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.val)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
