package profile

import "github.com/ardnew/ftl/pkg"

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a profiling session started by [Start].
type Stopper interface{ Stop() }

type settings struct {
	mode  string
	path  string
	quiet bool
}

// Option configures a profiling session.
type Option = pkg.Option[settings]

// WithMode selects one of [Modes]. An empty or unknown mode disables
// profiling.
func WithMode(mode string) Option {
	return func(s settings) settings {
		s.mode = mode

		return s
	}
}

// WithPath sets the directory profile output is written to.
func WithPath(path string) Option {
	return func(s settings) settings {
		s.path = path

		return s
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(s settings) settings {
		s.quiet = quiet

		return s
	}
}

// Start begins profiling and returns a [Stopper] that flushes the profile.
//
// Start returns a no-op [Stopper] when the binary was built without the
// pprof tag or when no mode is selected. Both Start and Stop are always safe
// to call.
func Start(opts ...Option) Stopper {
	s := pkg.Apply(settings{}, opts...)
	if s.mode == "" {
		return ignore{}
	}

	return start(s)
}

type ignore struct{}

func (ignore) Stop() {}
