package typai

import (
	"github.com/reoring/typai/i18n"
	"github.com/reoring/typai/log"
)

// Pipeline decodes provider arguments against one descriptor. It holds no
// per-call state and may be shared between goroutines.
type Pipeline struct {
	root    *Type
	wrapped bool
	opts    options
}

// NewPipeline prepares a pipeline for root. Stages default to
// [StageNormalize]; see WithDefaults and WithStages.
func NewPipeline(root *Type, opts ...Option) *Pipeline {
	return &Pipeline{root: root, wrapped: NeedsWrapping(root), opts: buildOptions(opts)}
}

// Type returns the root descriptor.
func (p *Pipeline) Type() *Type { return p.root }

// Stages returns the configured stage order. Decoding always runs last.
func (p *Pipeline) Stages() []Stage { return append([]Stage(nil), p.opts.stages...) }

// Parse tolerant-parses rawText and runs the pipeline on the result. Text
// that cannot be parsed at all fails with a *ReparseError at the root path.
func (p *Pipeline) Parse(rawText string) (any, error) {
	raw, err := ParseTolerant(rawText)
	if err != nil {
		return nil, &ReparseError{Path: Path{}, RawText: rawText, Cause: err}
	}
	return p.Run(raw)
}

// Run takes an already parsed value, unwraps a wrapped root, runs the stages
// in order and decodes.
func (p *Pipeline) Run(raw any) (any, error) {
	v := raw
	if p.wrapped {
		var err error
		if v, err = p.unwrap(v); err != nil {
			return nil, err
		}
	}
	for _, st := range p.opts.stages {
		log.Debugf("typai: running stage %s", st)
		switch st {
		case StageNormalize:
			n := &normalizer{maxDepth: p.opts.maxDepth}
			out, err := n.normalize(v, p.root, Path{}, 0)
			if err != nil {
				return nil, err
			}
			if out == absent {
				out = nil
			}
			v = out
		case StageDefaults:
			v = ApplyDefaults(v, p.root)
		}
	}
	d := &decoder{root: p.root, maxDepth: p.opts.maxDepth}
	out, ok := d.decode(v, p.root, Path{}, 0)
	if d.err != nil {
		return nil, d.err
	}
	if !ok {
		log.Debugf("typai: decode failed: %v", d.errs)
		return nil, d.errs
	}
	return out, nil
}

// unwrap extracts the root value from the {items: ...} wrapper. A value the
// model sent without the wrapper is accepted as is, including an object that
// already satisfies the root.
func (p *Pipeline) unwrap(v any) (any, error) {
	m, ok := asObject(v)
	if !ok {
		return v, nil
	}
	inner, ok := m[WrapKey]
	if !ok {
		n := &normalizer{maxDepth: p.opts.maxDepth}
		if bare, err := n.normalize(v, p.root, Path{}, 0); err == nil && n.matches(bare, p.root) {
			return v, nil
		}
		expected := p.root.Name()
		return nil, ValidationErrors{{
			Path:     Path{}.Field(WrapKey),
			Code:     CodeRequired,
			Expected: expected,
			Message:  i18n.T(CodeRequired, map[string]string{"expected": expected}),
		}}
	}
	return inner, nil
}

// ParseArguments runs a one-off pipeline for t over rawText.
func ParseArguments(rawText string, t *Type, opts ...Option) (any, error) {
	return NewPipeline(t, opts...).Parse(rawText)
}

// ParseArgumentsInto is ParseArguments followed by a conversion into T.
func ParseArgumentsInto[T any](rawText string, t *Type, opts ...Option) (T, error) {
	v, err := ParseArguments(rawText, t, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return convert[T](v)
}
