// Package descriptor loads tool definitions from YAML or JSON files.
//
// A file holds one or more YAML documents, each describing a tool:
//
//	name: reportEmotion
//	description: Report the emotion in the text
//	parameters:
//	  type: object
//	  properties:
//	    emotion: {type: enum, values: [happy, sad]}
//	    intensity: {type: number, default: 0.5, description: "0..1"}
//	    reasoning: {type: string, ignorable: true}
//
// Property order follows the file. Keys other than the structural ones
// (type, properties, items, variants, value, values, default, ignorable)
// become schema annotations.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/typai"
)

// Definition is one tool read from a descriptor file.
type Definition struct {
	Name        string
	Description string
	Parameters  *typai.Type
}

// Tool converts the definition into a typai.Tool.
func (d *Definition) Tool() *typai.Tool {
	return typai.NewTool(d.Name, d.Description, d.Parameters)
}

// Error reports a malformed descriptor with its position in the file.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("descriptor: %d:%d: %s", e.Line, e.Column, e.Msg)
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return &Error{Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

// ReadFile parses every definition in the file at path.
func ReadFile(path string) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses every definition of a (multi-document) YAML or JSON stream.
func Parse(data []byte) ([]*Definition, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads definitions from r until EOF.
func Decode(r io.Reader) ([]*Definition, error) {
	dec := yaml.NewDecoder(r)
	var out []*Definition
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(root.Content) == 0 {
			continue
		}
		def, err := parseDefinition(root.Content[0])
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	if len(out) == 0 {
		return nil, errors.New("descriptor: no tool definitions found")
	}
	return out, nil
}

// Find returns the definition called name. An empty name selects the only
// definition when there is exactly one.
func Find(defs []*Definition, name string) (*Definition, error) {
	if name == "" {
		if len(defs) == 1 {
			return defs[0], nil
		}
		return nil, fmt.Errorf("descriptor: %d definitions, a tool name is required", len(defs))
	}
	for _, d := range defs {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("descriptor: tool %q not found", name)
}

// Tools converts every definition into a typai.Tool, keeping file order.
func Tools(defs []*Definition) []*typai.Tool {
	out := make([]*typai.Tool, len(defs))
	for i, d := range defs {
		out[i] = d.Tool()
	}
	return out
}

// ParseType parses a single type node document, without the tool envelope.
func ParseType(data []byte) (*typai.Type, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, errors.New("descriptor: empty document")
	}
	return parseType(root.Content[0])
}

func parseDefinition(n *yaml.Node) (*Definition, error) {
	fields, err := mapping(n)
	if err != nil {
		return nil, err
	}
	def := &Definition{}
	var params *yaml.Node
	for _, f := range fields {
		switch f.key.Value {
		case "name":
			if def.Name, err = scalarString(f.val); err != nil {
				return nil, err
			}
		case "description":
			if def.Description, err = scalarString(f.val); err != nil {
				return nil, err
			}
		case "parameters":
			params = f.val
		default:
			return nil, errorf(f.key, "unknown definition key %q", f.key.Value)
		}
	}
	if def.Name == "" {
		return nil, errorf(n, "definition has no name")
	}
	if params == nil {
		return nil, errorf(n, "definition %q has no parameters", def.Name)
	}
	if def.Parameters, err = parseType(params); err != nil {
		return nil, err
	}
	return def, nil
}

var structural = map[string][]string{
	"object":  {"properties"},
	"array":   {"items"},
	"union":   {"variants"},
	"literal": {"value"},
	"enum":    {"values"},
}

func parseType(n *yaml.Node) (*typai.Type, error) {
	// shorthand: a bare scalar names a primitive
	if n.Kind == yaml.ScalarNode {
		t, ok := primitive(n.Value)
		if !ok {
			return nil, errorf(n, "unknown type %q", n.Value)
		}
		return t, nil
	}
	fields, err := mapping(n)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*yaml.Node, len(fields))
	for _, f := range fields {
		byKey[f.key.Value] = f.val
	}
	tn, ok := byKey["type"]
	if !ok {
		return nil, errorf(n, "missing type")
	}
	kind, err := scalarString(tn)
	if err != nil {
		return nil, err
	}

	var base *typai.Type
	switch kind {
	case "string", "number", "boolean", "null":
		base, _ = primitive(kind)
	case "object":
		base, err = parseObject(byKey["properties"])
	case "array":
		items, ok := byKey["items"]
		if !ok {
			return nil, errorf(n, "array needs items")
		}
		var elem *typai.Type
		if elem, err = parseType(items); err == nil {
			base = typai.Array(elem)
		}
	case "union":
		base, err = parseUnion(n, byKey["variants"])
	case "literal":
		vn, ok := byKey["value"]
		if !ok {
			return nil, errorf(n, "literal needs value")
		}
		var v any
		if v, err = nodeValue(vn); err == nil {
			if !isScalar(v) {
				return nil, errorf(vn, "literal value must be a scalar")
			}
			base = typai.Literal(v)
		}
	case "enum":
		base, err = parseEnum(n, byKey["values"])
	default:
		return nil, errorf(tn, "unknown type %q", kind)
	}
	if err != nil {
		return nil, err
	}

	allowed := structural[kind]
	ann := map[string]any{}
	ignorable := false
	for _, f := range fields {
		k := f.key.Value
		switch k {
		case "type":
		case "properties", "items", "variants", "value", "values":
			if !contains(allowed, k) {
				return nil, errorf(f.key, "key %q is not valid for type %q", k, kind)
			}
		case "ignorable":
			if err := f.val.Decode(&ignorable); err != nil {
				return nil, errorf(f.val, "ignorable must be a boolean")
			}
		case typai.AnnotationTransform:
			return nil, errorf(f.key, "transform can only be set in Go code")
		default:
			v, err := nodeValue(f.val)
			if err != nil {
				return nil, err
			}
			ann[k] = v
		}
	}
	if len(ann) > 0 {
		base = typai.Annotate(base, ann)
	}
	if ignorable {
		base = typai.Ignorable(base)
	}
	return base, nil
}

func parseObject(props *yaml.Node) (*typai.Type, error) {
	if props == nil {
		return typai.Object(), nil
	}
	fields, err := mapping(props)
	if err != nil {
		return nil, err
	}
	out := make([]typai.Property, 0, len(fields))
	for _, f := range fields {
		pt, err := parseType(f.val)
		if err != nil {
			return nil, err
		}
		out = append(out, typai.Field(f.key.Value, pt))
	}
	return typai.Object(out...), nil
}

func parseUnion(n, variants *yaml.Node) (*typai.Type, error) {
	if variants == nil || variants.Kind != yaml.SequenceNode || len(variants.Content) == 0 {
		return nil, errorf(n, "union needs a non-empty variants list")
	}
	out := make([]*typai.Type, 0, len(variants.Content))
	for _, vn := range variants.Content {
		vt, err := parseType(vn)
		if err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return typai.Union(out...), nil
}

func parseEnum(n, values *yaml.Node) (*typai.Type, error) {
	if values == nil || values.Kind != yaml.SequenceNode || len(values.Content) == 0 {
		return nil, errorf(n, "enum needs a non-empty values list")
	}
	out := make([]string, 0, len(values.Content))
	for _, vn := range values.Content {
		if vn.Kind != yaml.ScalarNode {
			return nil, errorf(vn, "enum values must be strings")
		}
		out = append(out, vn.Value)
	}
	return typai.Enum(out...), nil
}

func primitive(name string) (*typai.Type, bool) {
	switch name {
	case "string":
		return typai.String(), true
	case "number":
		return typai.Number(), true
	case "boolean":
		return typai.Boolean(), true
	case "null":
		return typai.Null(), true
	}
	return nil, false
}

type field struct {
	key, val *yaml.Node
}

// mapping returns the key/value pairs of a mapping node in order and rejects
// duplicate keys.
func mapping(n *yaml.Node) ([]field, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "expected a mapping")
	}
	out := make([]field, 0, len(n.Content)/2)
	seen := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if first, dup := seen[k.Value]; dup {
			return nil, errorf(k, "duplicate key %q (first at %d:%d)", k.Value, first.Line, first.Column)
		}
		seen[k.Value] = k
		out = append(out, field{key: k, val: v})
	}
	return out, nil
}

func scalarString(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", errorf(n, "expected a string")
	}
	return n.Value, nil
}

// nodeValue converts a YAML node into a JSON-compatible Go value.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		fields, err := mapping(n)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			v, err := nodeValue(f.val)
			if err != nil {
				return nil, err
			}
			m[f.key.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, errorf(n, "invalid boolean %q", n.Value)
			}
			return b, nil
		case "!!int", "!!float":
			// numbers become float64 to match decoded JSON
			var f float64
			if err := n.Decode(&f); err != nil {
				if f, err = strconv.ParseFloat(n.Value, 64); err != nil {
					return nil, errorf(n, "invalid number %q", n.Value)
				}
			}
			return f, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, errorf(n, "unsupported YAML node")
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64:
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
