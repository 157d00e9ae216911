package typai

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind is the closed set of descriptor node variants.
type Kind uint8

const (
	KindInvalid   Kind = iota // Zero value; never produced by a constructor.
	KindPrimitive             // string, number, boolean, null.
	KindObject                // Ordered, named properties.
	KindArray                 // Homogeneous element type.
	KindUnion                 // Ordered variants, first match wins.
	KindLiteral               // A single scalar value.
	KindEnum                  // A set of string literals.
	KindAnnotated             // Base node plus schema metadata.
	KindIgnorable             // Property that may be dropped.
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	case KindLiteral:
		return "literal"
	case KindEnum:
		return "enum"
	case KindAnnotated:
		return "annotated"
	case KindIgnorable:
		return "ignorable"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PrimitiveKind names a JSON primitive. The values double as JSON Schema type names.
type PrimitiveKind string

const (
	PrimitiveString  PrimitiveKind = "string"
	PrimitiveNumber  PrimitiveKind = "number"
	PrimitiveBoolean PrimitiveKind = "boolean"
	PrimitiveNull    PrimitiveKind = "null"
)

// Property is a named object member.
type Property struct {
	Name string
	Type *Type
}

// Type is an immutable descriptor node. Build it with the constructors in this
// package; a Type is never modified after construction and may be shared
// between goroutines.
type Type struct {
	kind      Kind
	primitive PrimitiveKind
	props     []Property
	elem      *Type
	variants  []*Type
	literal   any
	enum      []string
	base      *Type
	ann       annotations
}

// String returns the string primitive.
func String() *Type { return &Type{kind: KindPrimitive, primitive: PrimitiveString} }

// Number returns the number primitive.
func Number() *Type { return &Type{kind: KindPrimitive, primitive: PrimitiveNumber} }

// Boolean returns the boolean primitive.
func Boolean() *Type { return &Type{kind: KindPrimitive, primitive: PrimitiveBoolean} }

// Null returns the null primitive.
func Null() *Type { return &Type{kind: KindPrimitive, primitive: PrimitiveNull} }

// Field declares an object property.
func Field(name string, t *Type) Property { return Property{Name: name, Type: t} }

// Object declares an object whose properties keep the given order. Every
// property is required unless its node is Ignorable.
// It panics on duplicate names or nil property types.
func Object(fields ...Property) *Type {
	seen := make(map[string]struct{}, len(fields))
	props := make([]Property, 0, len(fields))
	for _, f := range fields {
		if f.Type == nil {
			panic("typai: Object property " + f.Name + " has nil type")
		}
		if _, dup := seen[f.Name]; dup {
			panic("typai: Object duplicate property " + f.Name)
		}
		seen[f.Name] = struct{}{}
		props = append(props, f)
	}
	return &Type{kind: KindObject, props: props}
}

// Array declares a homogeneous array.
func Array(elem *Type) *Type {
	if elem == nil {
		panic("typai: Array element type must not be nil")
	}
	return &Type{kind: KindArray, elem: elem}
}

// Union declares an ordered union. Decoding picks the first variant that
// accepts the value.
func Union(variants ...*Type) *Type {
	if len(variants) == 0 {
		panic("typai: Union needs at least one variant")
	}
	for _, v := range variants {
		if v == nil {
			panic("typai: Union variant must not be nil")
		}
	}
	return &Type{kind: KindUnion, variants: append([]*Type(nil), variants...)}
}

// Literal declares a single accepted scalar (string, number, bool or nil).
// Integer values are stored as float64 so they compare equal to decoded JSON numbers.
func Literal(v any) *Type {
	switch n := v.(type) {
	case nil, string, bool, float64:
	default:
		f, ok := toFloat(n)
		if !ok {
			panic(fmt.Sprintf("typai: Literal value must be a scalar, got %T", v))
		}
		v = f
	}
	return &Type{kind: KindLiteral, literal: v}
}

// Enum declares a keyed union of string literals. Duplicates are dropped,
// first occurrence order is kept.
func Enum(values ...string) *Type {
	if len(values) == 0 {
		panic("typai: Enum needs at least one value")
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return &Type{kind: KindEnum, enum: out}
}

// Ignorable marks a property as droppable: it is never required in the
// generated schema and never carried into the normalized value.
func Ignorable(base *Type) *Type {
	if base == nil {
		panic("typai: Ignorable base must not be nil")
	}
	return &Type{kind: KindIgnorable, base: base}
}

// Kind reports the node variant.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindInvalid
	}
	return t.kind
}

// Primitive reports the primitive kind; empty for other variants.
func (t *Type) Primitive() PrimitiveKind { return t.primitive }

// Properties returns a copy of the object properties in declaration order.
func (t *Type) Properties() []Property { return append([]Property(nil), t.props...) }

// Property looks up an object property by name.
func (t *Type) Property(name string) (*Type, bool) {
	for _, p := range t.props {
		if p.Name == name {
			return p.Type, true
		}
	}
	return nil, false
}

// Elem returns the array element type.
func (t *Type) Elem() *Type { return t.elem }

// Variants returns a copy of the union variants in order.
func (t *Type) Variants() []*Type { return append([]*Type(nil), t.variants...) }

// LiteralValue returns the literal's value.
func (t *Type) LiteralValue() any { return t.literal }

// EnumValues returns a copy of the enum members.
func (t *Type) EnumValues() []string { return append([]string(nil), t.enum...) }

// Base returns the wrapped node of Annotated and Ignorable.
func (t *Type) Base() *Type { return t.base }

// Name renders a human readable label used in diagnostics.
func (t *Type) Name() string {
	switch t.Kind() {
	case KindPrimitive:
		return string(t.primitive)
	case KindObject:
		if len(t.props) == 0 {
			return "{}"
		}
		parts := make([]string, len(t.props))
		for i, p := range t.props {
			if p.Type.Kind() == KindIgnorable {
				parts[i] = p.Name + "?: " + p.Type.Name()
				continue
			}
			parts[i] = p.Name + ": " + p.Type.Name()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindArray:
		return "Array<" + t.elem.Name() + ">"
	case KindUnion:
		parts := make([]string, len(t.variants))
		for i, v := range t.variants {
			parts[i] = v.Name()
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case KindLiteral:
		return renderScalar(t.literal)
	case KindEnum:
		parts := make([]string, len(t.enum))
		for i, v := range t.enum {
			parts[i] = renderScalar(v)
		}
		return strings.Join(parts, " | ")
	case KindAnnotated, KindIgnorable:
		return t.base.Name()
	default:
		return "invalid"
	}
}

func (t *Type) String() string { return t.Name() }

// peel strips Annotated and Ignorable wrappers.
func peel(t *Type) *Type {
	for t != nil && (t.kind == KindAnnotated || t.kind == KindIgnorable) {
		t = t.base
	}
	return t
}

func renderScalar(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
