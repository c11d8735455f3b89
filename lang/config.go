package lang

import (
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/log"
	"github.com/ardnew/ftl/pkg"
)

// Defaults of a [Config].
const (
	DefaultOutputFormat  = "undefined"
	DefaultDateFormat    = "iso"
	DefaultNumberFormat  = "number"
	DefaultBooleanFormat = "true,false"
)

// DefaultLocale is the locale of a [Config] without [WithLocale].
var DefaultLocale = language.AmericanEnglish

// Config holds the settings an [Engine] parses and renders with.
type Config struct {
	version        builtin.Version
	outputFormat   string
	autoEscaping   bool
	zone           *time.Location
	locale         language.Tag
	dateFormat     string
	timeFormat     string
	dateTimeFormat string
	numberFormat   string
	booleanFormat  string
	templatePath   []string
	logger         log.Logger
}

// Option configures a [Config].
type Option = pkg.Option[Config]

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) Config {
	return pkg.Apply(Config{
		version:        builtin.VersionDefault,
		outputFormat:   DefaultOutputFormat,
		autoEscaping:   true,
		zone:           time.UTC,
		locale:         DefaultLocale,
		dateFormat:     DefaultDateFormat,
		timeFormat:     DefaultDateFormat,
		dateTimeFormat: DefaultDateFormat,
		numberFormat:   DefaultNumberFormat,
		booleanFormat:  DefaultBooleanFormat,
	}, opts...)
}

// WithIncompatibleImprovements selects the builtin behaviors introduced up
// to version v.
func WithIncompatibleImprovements(v builtin.Version) Option {
	return func(c Config) Config {
		c.version = v

		return c
	}
}

// WithOutputFormat selects the output format by name, e.g. "HTML".
func WithOutputFormat(name string) Option {
	return func(c Config) Config {
		c.outputFormat = name

		return c
	}
}

// WithAutoEscaping enables escaping of interpolated text with the output
// format.
func WithAutoEscaping(enabled bool) Option {
	return func(c Config) Config {
		c.autoEscaping = enabled

		return c
	}
}

// WithTimeZone sets the zone dates are printed in. A nil zone means UTC.
func WithTimeZone(zone *time.Location) Option {
	return func(c Config) Config {
		if zone == nil {
			zone = time.UTC
		}

		c.zone = zone

		return c
	}
}

// WithLocale sets the locale of numbers, collation and locale-bound date
// formats.
func WithLocale(tag language.Tag) Option {
	return func(c Config) Config {
		c.locale = tag

		return c
	}
}

// WithDateFormat sets the format of date-only values.
func WithDateFormat(settings string) Option {
	return func(c Config) Config {
		c.dateFormat = settings

		return c
	}
}

// WithTimeFormat sets the format of time-only values.
func WithTimeFormat(settings string) Option {
	return func(c Config) Config {
		c.timeFormat = settings

		return c
	}
}

// WithDateTimeFormat sets the format of date-time values.
func WithDateTimeFormat(settings string) Option {
	return func(c Config) Config {
		c.dateTimeFormat = settings

		return c
	}
}

// WithNumberFormat sets the number format: "number", "c", "percent" or a
// pattern such as "0.00".
func WithNumberFormat(format string) Option {
	return func(c Config) Config {
		c.numberFormat = format

		return c
	}
}

// WithBooleanFormat sets the "true,false" pair booleans print as.
func WithBooleanFormat(format string) Option {
	return func(c Config) Config {
		c.booleanFormat = format

		return c
	}
}

// WithTemplatePath sets the directories [Engine.ParseFile] searches, in
// order.
func WithTemplatePath(dirs ...string) Option {
	return func(c Config) Config {
		c.templatePath = dirs

		return c
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c Config) Config {
		c.logger = logger

		return c
	}
}

func (c Config) Version() builtin.Version { return c.version }
func (c Config) OutputFormat() string     { return c.outputFormat }
func (c Config) AutoEscaping() bool       { return c.autoEscaping }
func (c Config) TimeZone() *time.Location { return c.zone }
func (c Config) Locale() language.Tag     { return c.locale }
func (c Config) NumberFormat() string     { return c.numberFormat }
func (c Config) BooleanFormat() string    { return c.booleanFormat }
func (c Config) TemplatePath() []string   { return c.templatePath }
func (c Config) Logger() log.Logger       { return c.logger }
