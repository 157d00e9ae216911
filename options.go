package typai

// DefaultMaxDepth bounds recursion when no WithMaxDepth option is given.
const DefaultMaxDepth = 64

// Stage is an orderable pipeline step run before the final decode.
type Stage int

const (
	StageNormalize Stage = iota // Tolerant recursive reparse.
	StageDefaults               // Default backfill.
)

func (s Stage) String() string {
	switch s {
	case StageNormalize:
		return "normalize"
	case StageDefaults:
		return "defaults"
	default:
		return "unknown"
	}
}

// options bundles pipeline settings.
type options struct {
	maxDepth int
	stages   []Stage
}

// Option configures Normalize, Decode and the pipeline entry points.
type Option func(*options)

// WithMaxDepth sets the recursion ceiling. Values <= 0 restore the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		o.maxDepth = n
	}
}

// WithStages sets the stages run before decoding, in order.
func WithStages(stages ...Stage) Option {
	return func(o *options) {
		o.stages = append([]Stage(nil), stages...)
	}
}

// WithDefaults runs default backfill after normalization.
func WithDefaults() Option {
	return WithStages(StageNormalize, StageDefaults)
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth, stages: []Stage{StageNormalize}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
