package cli

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang"
	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/lang/outputformat"
)

// improvements is a builtin version parsed from its dotted form.
type improvements builtin.Version

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *improvements) UnmarshalText(text []byte) error {
	ver, err := builtin.ParseVersion(string(text))
	if err != nil {
		return err
	}

	*v = improvements(ver)

	return nil
}

func (v improvements) String() string { return builtin.Version(v).String() }

// zone is a time zone parsed by IANA name, "UTC" or "Local".
type zone struct{ *time.Location }

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *zone) UnmarshalText(text []byte) error {
	loc, err := time.LoadLocation(string(text))
	if err != nil {
		return err
	}

	z.Location = loc

	return nil
}

type engineConfig struct {
	OutputFormat             string       `default:"${outputFormatDefault}" help:"Output format of templates (${outputFormats})."        short:"o"`
	AutoEscaping             bool         `default:"true"                   help:"Escape interpolations with the output format."        negatable:""`
	IncompatibleImprovements improvements `default:"${versionDefault}"      help:"Select builtin behaviors introduced up to a version." placeholder:"X.Y.Z"`
	TimeZone                 zone         `default:"UTC"                    help:"Time zone dates are printed in."`
	Locale                   language.Tag `default:"${localeDefault}"       help:"Locale of numbers and date formats."`
	DateFormat               string       `default:"${dateFormatDefault}"   help:"Format of date-only values."`
	TimeFormat               string       `default:"${dateFormatDefault}"   help:"Format of time-only values."`
	DatetimeFormat           string       `default:"${dateFormatDefault}"   help:"Format of date-time values."`
	NumberFormat             string       `default:"${numberFormatDefault}" help:"Format of numbers."`
	BooleanFormat            string       `default:"${booleanFormatDefault}" help:"Pair of strings booleans print as."`
	TemplatePath             []string     `help:"Directories searched for templates." short:"I" type:"path"`
}

func (*engineConfig) vars() kong.Vars {
	return kong.Vars{
		"outputFormats":        strings.Join(outputformat.Names(), ", "),
		"outputFormatDefault":  lang.DefaultOutputFormat,
		"versionDefault":       builtin.VersionDefault.String(),
		"localeDefault":        lang.DefaultLocale.String(),
		"dateFormatDefault":    lang.DefaultDateFormat,
		"numberFormatDefault":  lang.DefaultNumberFormat,
		"booleanFormatDefault": lang.DefaultBooleanFormat,
	}
}

func (*engineConfig) group() kong.Group {
	var group kong.Group

	group.Key = "engine"
	group.Title = "Template engine options"

	return group
}

// options returns the engine options selected by the parsed flags.
func (f *engineConfig) options() []lang.Option {
	return []lang.Option{
		lang.WithOutputFormat(f.OutputFormat),
		lang.WithAutoEscaping(f.AutoEscaping),
		lang.WithIncompatibleImprovements(builtin.Version(f.IncompatibleImprovements)),
		lang.WithTimeZone(f.TimeZone.Location),
		lang.WithLocale(f.Locale),
		lang.WithDateFormat(f.DateFormat),
		lang.WithTimeFormat(f.TimeFormat),
		lang.WithDateTimeFormat(f.DatetimeFormat),
		lang.WithNumberFormat(f.NumberFormat),
		lang.WithBooleanFormat(f.BooleanFormat),
		lang.WithTemplatePath(f.TemplatePath...),
	}
}
