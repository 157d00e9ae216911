package typai

// ApplyDefaults returns a copy of v in which absent or null values are
// replaced by the nearest enclosing default annotation. Substituted defaults
// are deep-copied and backfilled in turn, so a second pass changes nothing.
// Absent properties backed by Ignorable are left absent. v is never modified.
func ApplyDefaults(v any, t *Type) any {
	out, _ := fillDefaults(v, true, t)
	return out
}

// fillDefaults reports the resulting value and whether it is present.
func fillDefaults(v any, present bool, t *Type) (any, bool) {
	if !present || v == nil {
		def, ok := nearestDefault(t)
		if !ok {
			return v, present
		}
		v, present = deepCopy(def), true
		if v == nil {
			return nil, true
		}
	}

	switch base := peel(t); base.Kind() {
	case KindObject:
		m, ok := asObject(v)
		if !ok {
			return v, true
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		for _, p := range base.props {
			pv, has := m[p.Name]
			if !has && p.Type.Kind() == KindIgnorable {
				continue
			}
			r, ok := fillDefaults(pv, has, p.Type)
			if ok {
				out[p.Name] = r
			}
		}
		return out, true
	case KindArray:
		items, ok := asArray(v)
		if !ok {
			return v, true
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i], _ = fillDefaults(item, true, base.elem)
		}
		return out, true
	default:
		// unions and leaves pass through once a value is present
		return v, true
	}
}

// nearestDefault walks the wrapper chain outermost first.
func nearestDefault(t *Type) (any, bool) {
	for ; t != nil; t = t.base {
		switch t.kind {
		case KindAnnotated:
			if t.ann.hasDefault {
				return t.ann.def, true
			}
		case KindIgnorable:
		default:
			return nil, false
		}
	}
	return nil, false
}

// deepCopy clones maps and slices of a JSON-shaped value tree.
func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
