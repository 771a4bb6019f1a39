package invoker

import (
	"github.com/google/uuid"
	"github.com/hupe1980/cmdinvoke/logging"
	"github.com/hupe1980/cmdinvoke/transform"
)

// Options configures an invoker.
type Options struct {
	// Logger receives invocation events (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Transforms, when set, converts bound arguments before the target runs.
	Transforms *transform.Registry

	// NewID generates invocation identifiers for log correlation
	// (defaults to random UUIDs).
	NewID func() string
}

// Option mutates Options.
type Option func(o *Options)

// WithLogger sets the invocation logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithTransforms opts the invoker into value conversion.
func WithTransforms(r *transform.Registry) Option {
	return func(o *Options) { o.Transforms = r }
}

// WithIDGenerator overrides the invocation id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *Options) { o.NewID = fn }
}

func buildOptions(optFns []Option) Options {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return opts
}
