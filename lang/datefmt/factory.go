package datefmt

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/log"
)

// Factory builds formats from settings strings and caches them.
//
// Settings are dispatched on their leading word:
//
//	iso...                   ISO 8601 family
//	xs...                    XML Schema family
//	lenient                  dateparse on input, ISO 8601 on output
//	short|medium|long|full   locale styles, optionally "date_time" pairs
//	anything else            a Go reference layout, e.g. "Jan 2, 2006"
type Factory struct {
	logger log.Logger
	cache  sync.Map // cacheKey -> Format
}

type cacheKey struct {
	settings string
	typ      model.DateType
	zone     string
	locale   string
}

// NewFactory returns an empty Factory that logs cache misses to logger.
func NewFactory(logger log.Logger) *Factory {
	return &Factory{logger: logger}
}

// Get returns the format for settings and values of type typ.
func (f *Factory) Get(
	settings string, typ model.DateType, zone *time.Location, locale language.Tag,
) (Format, error) {
	if zone == nil {
		zone = time.UTC
	}

	key := cacheKey{
		settings: settings,
		typ:      typ,
		zone:     zone.String(),
		locale:   locale.String(),
	}

	if v, ok := f.cache.Load(key); ok {
		return v.(Format), nil
	}

	format, err := f.create(settings, typ, zone, locale)
	if err != nil {
		return nil, err
	}

	f.logger.Trace("date format created",
		slog.String("settings", settings),
		slog.String("type", typ.String()),
		slog.String("zone", key.zone),
		slog.String("locale", key.locale),
		slog.String("description", format.Description()),
	)

	v, _ := f.cache.LoadOrStore(key, format)

	return v.(Format), nil
}

func (f *Factory) create(
	settings string, typ model.DateType, zone *time.Location, locale language.Tag,
) (Format, error) {
	switch {
	case strings.HasPrefix(settings, isoFamily.prefix):
		return NewISO(settings, typ, zone)
	case strings.HasPrefix(settings, xsFamily.prefix):
		return NewXS(settings, typ, zone)
	case settings == "lenient":
		return NewLenient(typ, locale, zone)
	}

	word, _, _ := strings.Cut(settings, "_")
	if _, ok := parseStyle(word); ok {
		return NewStyle(settings, typ, locale, zone)
	}

	if strings.TrimSpace(settings) == "" {
		return nil, &SyntaxError{Settings: settings, Msg: "empty date format"}
	}

	return NewLayout(settings, locale, zone), nil
}
