package typai

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns an object-key segment.
func Key(name string) Segment { return Segment{Key: name} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Value returns the segment as a string or an int.
func (s Segment) Value() any {
	if s.IsIndex {
		return s.Index
	}
	return s.Key
}

// Path addresses a location inside a value, root first. The zero value is the root.
type Path []Segment

// Field returns a new path extended with an object key. p is never modified.
func (p Path) Field(name string) Path {
	return append(append(make(Path, 0, len(p)+1), p...), Key(name))
}

// Index returns a new path extended with an array index. p is never modified.
func (p Path) Index(i int) Path {
	return append(append(make(Path, 0, len(p)+1), p...), Index(i))
}

// Elements returns the segments as strings and ints.
func (p Path) Elements() []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = s.Value()
	}
	return out
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// String renders the path in accessor form, e.g. "items[2].price". The root is "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	b := &strings.Builder{}
	for i, s := range p {
		if s.IsIndex {
			b.WriteString("[" + strconv.Itoa(s.Index) + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

func (p Path) clone() Path {
	if len(p) == 0 {
		return Path{}
	}
	return append(Path(nil), p...)
}
