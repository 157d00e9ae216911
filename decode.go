package typai

import (
	"math"

	json "github.com/goccy/go-json"

	"github.com/reoring/typai/i18n"
)

// decoder validates a plain value tree against a descriptor. In collecting
// mode every mismatch is recorded; failFast stops at the first one.
type decoder struct {
	root     *Type
	maxDepth int
	failFast bool
	errs     ValidationErrors
	err      error // unsupported node or depth overflow; aborts the walk
}

// Decode validates v against t and returns the typed result: map[string]any
// for objects (declared properties only), []any, string, float64, bool or nil.
// All mismatches are returned together as ValidationErrors.
func Decode(v any, t *Type, opts ...Option) (any, error) {
	o := buildOptions(opts)
	d := &decoder{root: t, maxDepth: o.maxDepth}
	out, ok := d.decode(v, t, Path{}, 0)
	if d.err != nil {
		return nil, d.err
	}
	if !ok {
		return nil, d.errs
	}
	return out, nil
}

// DecodeInto decodes v against t and converts the result into T through JSON.
func DecodeInto[T any](v any, t *Type, opts ...Option) (T, error) {
	var zero T
	out, err := Decode(v, t, opts...)
	if err != nil {
		return zero, err
	}
	return convert[T](out)
}

func convert[T any](v any) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (d *decoder) stopped() bool {
	return d.err != nil || (d.failFast && len(d.errs) > 0)
}

func (d *decoder) decode(v any, t *Type, path Path, depth int) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	if depth > d.maxDepth {
		d.err = &DepthError{Path: path.clone(), Limit: d.maxDepth}
		return nil, false
	}
	switch t.Kind() {
	case KindAnnotated, KindIgnorable:
		return d.decode(v, t.base, path, depth+1)
	case KindPrimitive:
		switch t.primitive {
		case PrimitiveString:
			if s, ok := v.(string); ok {
				return s, true
			}
		case PrimitiveNumber:
			// NaN and the infinities have no JSON encoding.
			if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		case PrimitiveBoolean:
			if b, ok := v.(bool); ok {
				return b, true
			}
		case PrimitiveNull:
			if v == nil {
				return nil, true
			}
		}
		return d.fail(path, CodeInvalidType, v)
	case KindLiteral:
		if literalEqual(v, t.literal) {
			return t.literal, true
		}
		return d.fail(path, CodeInvalidLiteral, v)
	case KindEnum:
		if s, ok := v.(string); ok && containsString(t.enum, s) {
			return s, true
		}
		return d.fail(path, CodeInvalidEnum, v)
	case KindObject:
		return d.object(v, t, path, depth)
	case KindArray:
		items, ok := asArray(v)
		if !ok {
			return d.fail(path, CodeInvalidType, v)
		}
		out := make([]any, len(items))
		valid := true
		for i, item := range items {
			r, ok := d.decode(item, t.elem, path.Index(i), depth+1)
			if !ok {
				valid = false
				if d.stopped() {
					return nil, false
				}
				continue
			}
			out[i] = r
		}
		if !valid {
			return nil, false
		}
		return out, true
	case KindUnion:
		return d.union(v, t, path, depth)
	default:
		d.err = &UnsupportedTypeError{Kind: t.Kind()}
		return nil, false
	}
}

func (d *decoder) object(v any, t *Type, path Path, depth int) (any, bool) {
	m, ok := asObject(v)
	if !ok {
		return d.fail(path, CodeInvalidType, v)
	}
	out := make(map[string]any, len(t.props))
	valid := true
	for _, p := range t.props {
		pv, present := m[p.Name]
		if p.Type.Kind() == KindIgnorable && (!present || pv == nil) {
			continue
		}
		if !present {
			d.fail(path.Field(p.Name), CodeRequired, nil)
			valid = false
			if d.stopped() {
				return nil, false
			}
			continue
		}
		r, ok := d.decode(pv, p.Type, path.Field(p.Name), depth+1)
		if !ok {
			valid = false
			if d.stopped() {
				return nil, false
			}
			continue
		}
		out[p.Name] = r
	}
	if !valid {
		return nil, false
	}
	return out, true
}

// union accepts the first variant that decodes. When none does, the errors of
// the first variant are reported.
func (d *decoder) union(v any, t *Type, path Path, depth int) (any, bool) {
	var first ValidationErrors
	for i, vt := range t.variants {
		sub := &decoder{root: d.root, maxDepth: d.maxDepth, failFast: d.failFast || i > 0}
		r, ok := sub.decode(v, vt, path, depth+1)
		if sub.err != nil {
			d.err = sub.err
			return nil, false
		}
		if ok {
			return r, true
		}
		if i == 0 {
			first = sub.errs
		}
	}
	d.errs = append(d.errs, first...)
	return nil, false
}

func (d *decoder) fail(path Path, code string, v any) (any, bool) {
	expected := ExpectedLabel(d.root, path)
	d.errs = append(d.errs, ValidationError{
		Path:     path.clone(),
		Code:     code,
		Expected: expected,
		Received: deepCopy(v),
		Message:  i18n.T(code, map[string]string{"expected": expected}),
	})
	return nil, false
}

// ExpectedLabel names the type expected at path inside root. Wrappers are
// peeled, object keys and array indexes are followed, and at a union each
// variant is tried in order. An unresolvable path falls back to root's label.
func ExpectedLabel(root *Type, path Path) string {
	if t, ok := resolve(root, path); ok {
		return t.Name()
	}
	return root.Name()
}

func resolve(t *Type, path Path) (*Type, bool) {
	if len(path) == 0 {
		return t, t != nil
	}
	t = peel(t)
	seg := path[0]
	switch t.Kind() {
	case KindObject:
		if seg.IsIndex {
			return nil, false
		}
		pt, ok := t.Property(seg.Key)
		if !ok {
			return nil, false
		}
		return resolve(pt, path[1:])
	case KindArray:
		if !seg.IsIndex {
			return nil, false
		}
		return resolve(t.elem, path[1:])
	case KindUnion:
		for _, v := range t.variants {
			if r, ok := resolve(v, path); ok {
				return r, true
			}
		}
	}
	return nil, false
}

