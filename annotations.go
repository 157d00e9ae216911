package typai

import (
	"fmt"
	"maps"
)

// Reserved annotation keys. They drive the pipeline and are never emitted into
// the generated schema.
const (
	AnnotationDefault   = "default"
	AnnotationTransform = "transform"
)

// TransformFunc rewrites a raw input value before it is matched against the
// annotated base type.
type TransformFunc func(v any) any

type annotations struct {
	extra      map[string]any
	def        any
	hasDefault bool
	transform  TransformFunc
}

// Annotate wraps base with metadata. Keys other than "default" and "transform"
// are merged verbatim into the generated schema. "transform" must hold a
// TransformFunc or a func(any) any; Annotate panics otherwise.
func Annotate(base *Type, ann map[string]any) *Type {
	if base == nil {
		panic("typai: Annotate base must not be nil")
	}
	a := annotations{extra: make(map[string]any, len(ann))}
	for k, v := range ann {
		switch k {
		case AnnotationDefault:
			a.def, a.hasDefault = v, true
		case AnnotationTransform:
			switch fn := v.(type) {
			case TransformFunc:
				a.transform = fn
			case func(any) any:
				a.transform = fn
			case nil:
			default:
				panic(fmt.Sprintf("typai: transform annotation must be a func(any) any, got %T", v))
			}
		default:
			a.extra[k] = v
		}
	}
	return &Type{kind: KindAnnotated, base: base, ann: a}
}

// WithDefault annotates base with a default substituted for absent or null input.
func WithDefault(base *Type, v any) *Type {
	return Annotate(base, map[string]any{AnnotationDefault: v})
}

// WithTransform annotates base with a transform applied to raw input.
func WithTransform(base *Type, fn TransformFunc) *Type {
	return Annotate(base, map[string]any{AnnotationTransform: fn})
}

// Describe annotates base with a JSON Schema description.
func Describe(base *Type, description string) *Type {
	return Annotate(base, map[string]any{"description": description})
}

// Annotations returns a copy of the schema-facing annotations of an Annotated node.
func (t *Type) Annotations() map[string]any { return maps.Clone(t.ann.extra) }

// Default reports the default value carried by an Annotated node.
func (t *Type) Default() (any, bool) { return t.ann.def, t.ann.hasDefault }

// Transform returns the transform carried by an Annotated node, or nil.
func (t *Type) Transform() TransformFunc { return t.ann.transform }
