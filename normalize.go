package typai

import (
	"errors"
	"math"

	"github.com/reoring/typai/log"
)

// absentMarker distinguishes "key intentionally dropped" from a null value.
type absentMarker struct{}

var absent any = absentMarker{}

type normalizer struct {
	maxDepth int
}

// Normalize walks raw against t and peels string-encoded JSON wherever the
// descriptor expects structure. String fields are never reparsed. Shape
// mismatches are left in place for Decode to report; only unparseable text
// where an object or array is expected fails, with a *ReparseError.
func Normalize(raw any, t *Type, opts ...Option) (any, error) {
	o := buildOptions(opts)
	n := &normalizer{maxDepth: o.maxDepth}
	v, err := n.normalize(raw, t, Path{}, 0)
	if err != nil {
		return nil, err
	}
	if v == absent {
		return nil, nil
	}
	return v, nil
}

func (n *normalizer) normalize(raw any, t *Type, path Path, depth int) (any, error) {
	if depth > n.maxDepth {
		return nil, &DepthError{Path: path.clone(), Limit: n.maxDepth}
	}
	switch t.Kind() {
	case KindAnnotated:
		if fn := t.ann.transform; fn != nil {
			raw = fn(raw)
		}
		return n.normalize(raw, t.base, path, depth+1)
	case KindIgnorable:
		return absent, nil
	case KindPrimitive:
		if t.primitive == PrimitiveString {
			return raw, nil
		}
		return n.leaf(raw, t, path, depth)
	case KindUnion:
		return n.union(raw, t, path, depth)
	case KindObject:
		if s, ok := raw.(string); ok {
			return n.reparse(s, t, path, depth)
		}
		m, ok := asObject(raw)
		if !ok {
			return raw, nil
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		for _, p := range t.props {
			v, present := m[p.Name]
			if !present {
				continue
			}
			r, err := n.normalize(v, p.Type, path.Field(p.Name), depth+1)
			if err != nil {
				return nil, err
			}
			if r == absent {
				delete(out, p.Name)
				continue
			}
			out[p.Name] = r
		}
		return out, nil
	case KindArray:
		if s, ok := raw.(string); ok {
			return n.reparse(s, t, path, depth)
		}
		items, ok := asArray(raw)
		if !ok {
			return raw, nil
		}
		out := make([]any, len(items))
		for i, v := range items {
			r, err := n.normalize(v, t.elem, path.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			if r == absent {
				r = nil
			}
			out[i] = r
		}
		return out, nil
	case KindLiteral, KindEnum:
		return n.leaf(raw, t, path, depth)
	default:
		return nil, &UnsupportedTypeError{Kind: t.Kind()}
	}
}

// reparse peels one string layer where structure is expected.
func (n *normalizer) reparse(s string, t *Type, path Path, depth int) (any, error) {
	parsed, err := ParseTolerant(s)
	if err != nil {
		return nil, &ReparseError{Path: path.clone(), RawText: s, Cause: err}
	}
	log.Debugf("typai: reparsed string-encoded %s at %s", t.Kind(), path.Pointer())
	return n.normalize(parsed, t, path, depth+1)
}

// leaf handles number, boolean, null, literal and enum nodes. A string that
// parses is peeled; one that does not is kept for Decode to reject.
func (n *normalizer) leaf(raw any, t *Type, path Path, depth int) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return raw, nil
	}
	if t.kind == KindEnum && containsString(t.enum, s) {
		return raw, nil
	}
	if t.kind == KindLiteral && literalEqual(s, t.literal) {
		return raw, nil
	}
	parsed, err := ParseTolerant(s)
	if err != nil {
		return raw, nil
	}
	switch pv := parsed.(type) {
	case string:
		if pv == s {
			return raw, nil
		}
	case float64:
		// JSON5 reads "NaN" and "Infinity"; keep the text for the error report.
		if math.IsNaN(pv) || math.IsInf(pv, 0) {
			return raw, nil
		}
	}
	return n.normalize(parsed, t, path, depth+1)
}

func (n *normalizer) union(raw any, t *Type, path Path, depth int) (any, error) {
	s, isString := raw.(string)
	if isString {
		if parsed, err := ParseTolerant(s); err == nil {
			for _, v := range t.variants {
				r, err := n.normalize(parsed, v, path, depth+1)
				if err != nil {
					if errors.Is(err, ErrMaxDepth) {
						return nil, err
					}
					continue
				}
				if n.matches(r, v) {
					return r, nil
				}
			}
		}
	}
	for _, v := range t.variants {
		if n.matches(raw, v) {
			return raw, nil
		}
	}
	if !isString {
		for _, v := range t.variants {
			r, err := n.normalize(raw, v, path, depth+1)
			if err != nil {
				if errors.Is(err, ErrMaxDepth) {
					return nil, err
				}
				continue
			}
			if n.matches(r, v) {
				return r, nil
			}
		}
	}
	return raw, nil
}

// matches reports whether v structurally satisfies t.
func (n *normalizer) matches(v any, t *Type) bool {
	if v == absent {
		return false
	}
	d := &decoder{root: t, maxDepth: n.maxDepth, failFast: true}
	_, ok := d.decode(v, t, Path{}, 0)
	return ok && d.err == nil
}
