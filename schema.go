package typai

import (
	json "github.com/goccy/go-json"

	js "github.com/reoring/typai/jsonschema"
)

// WrapKey is the property that carries a non-object root inside the synthetic
// wrapper object.
const WrapKey = "items"

// Document is the compiled declaration handed to a provider.
type Document struct {
	Name        string
	Description string
	Parameters  *js.Schema
	// Wrapped is set when the root type is not an object and was packaged as
	// {items: <root>}; decoding must unwrap it again.
	Wrapped bool
}

// MarshalJSON renders the document as a function tool declaration.
func (d *Document) MarshalJSON() ([]byte, error) {
	type function struct {
		Name        string     `json:"name"`
		Description string     `json:"description,omitempty"`
		Parameters  *js.Schema `json:"parameters"`
	}
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Function function `json:"function"`
	}{
		Type:     "function",
		Function: function{Name: d.Name, Description: d.Description, Parameters: d.Parameters},
	})
}

type schemaOptions struct {
	strict bool
}

// SchemaOption configures GenerateSchema.
type SchemaOption func(*schemaOptions)

// WithStrict sets additionalProperties: false on every object.
func WithStrict() SchemaOption {
	return func(o *schemaOptions) { o.strict = true }
}

// NeedsWrapping reports whether root must be packaged inside an object
// because providers require an object at the parameters root.
func NeedsWrapping(root *Type) bool {
	return peel(root).Kind() != KindObject
}

// GenerateSchema compiles root into a provider declaration. Non-object roots
// are wrapped as {items: root} and the returned Document is marked Wrapped.
func GenerateSchema(root *Type, name, description string, opts ...SchemaOption) (*Document, error) {
	var o schemaOptions
	for _, opt := range opts {
		opt(&o)
	}
	params, err := lower(root, o)
	if err != nil {
		return nil, err
	}
	doc := &Document{Name: name, Description: description, Parameters: params}
	if NeedsWrapping(root) {
		doc.Parameters = &js.Schema{
			Type:       "object",
			Properties: []js.Property{{Name: WrapKey, Schema: params}},
			Required:   []string{WrapKey},
		}
		if o.strict {
			doc.Parameters.AdditionalProperties = new(bool)
		}
		doc.Wrapped = true
	}
	return doc, nil
}

// LowerSchema compiles a single node without root-shape normalization.
func LowerSchema(t *Type, opts ...SchemaOption) (*js.Schema, error) {
	var o schemaOptions
	for _, opt := range opts {
		opt(&o)
	}
	return lower(t, o)
}

func lower(t *Type, o schemaOptions) (*js.Schema, error) {
	switch t.Kind() {
	case KindPrimitive:
		return &js.Schema{Type: string(t.primitive)}, nil
	case KindObject:
		out := &js.Schema{
			Type:       "object",
			Properties: make([]js.Property, 0, len(t.props)),
			Required:   make([]string, 0, len(t.props)),
		}
		for _, p := range t.props {
			ps, err := lower(p.Type, o)
			if err != nil {
				return nil, err
			}
			out.Properties = append(out.Properties, js.Property{Name: p.Name, Schema: ps})
			if p.Type.Kind() != KindIgnorable {
				out.Required = append(out.Required, p.Name)
			}
		}
		if o.strict {
			out.AdditionalProperties = new(bool)
		}
		return out, nil
	case KindArray:
		items, err := lower(t.elem, o)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case KindUnion:
		out := &js.Schema{OneOf: make([]*js.Schema, 0, len(t.variants))}
		for _, v := range t.variants {
			vs, err := lower(v, o)
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, vs)
		}
		return out, nil
	case KindLiteral:
		return &js.Schema{Const: t.literal, HasConst: true}, nil
	case KindEnum:
		return &js.Schema{Type: "string", Enum: append([]string(nil), t.enum...)}, nil
	case KindAnnotated:
		out, err := lower(t.base, o)
		if err != nil {
			return nil, err
		}
		if len(t.ann.extra) > 0 {
			merged := make(map[string]any, len(out.Extra)+len(t.ann.extra))
			for k, v := range out.Extra {
				merged[k] = v
			}
			for k, v := range t.ann.extra {
				merged[k] = v
			}
			out.Extra = merged
		}
		return out, nil
	case KindIgnorable:
		return lower(t.base, o)
	default:
		return nil, &UnsupportedTypeError{Kind: t.Kind()}
	}
}
