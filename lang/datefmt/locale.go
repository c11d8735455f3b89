package datefmt

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/model"
)

var mondayLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"de_at": monday.LocaleDeDE,
	"de_ch": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_be": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"cs":    monday.LocaleCsCZ,
	"da":    monday.LocaleDaDK,
	"fi":    monday.LocaleFiFI,
	"sv":    monday.LocaleSvSE,
	"nb":    monday.LocaleNbNO,
	"nn":    monday.LocaleNnNO,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"uk":    monday.LocaleUkUA,
	"el":    monday.LocaleElGR,
	"ro":    monday.LocaleRoRO,
	"hu":    monday.LocaleHuHU,
	"bg":    monday.LocaleBgBG,
	"id":    monday.LocaleIdID,
	"th":    monday.LocaleThTH,
}

// MondayLocale returns the closest supported locale for tag, falling back
// to the base language and then to en_US.
func MondayLocale(tag language.Tag) monday.Locale {
	name := strings.ToLower(strings.ReplaceAll(tag.String(), "-", "_"))
	if loc, ok := mondayLocales[name]; ok {
		return loc
	}

	if base, _ := tag.Base(); base.String() != "" {
		if loc, ok := mondayLocales[base.String()]; ok {
			return loc
		}
	}

	return monday.LocaleEnUS
}

// monthFirst reports whether numeric dates of loc put the month first.
func monthFirst(loc monday.Locale) bool { return loc == monday.LocaleEnUS }

// Style is a named, locale dependent level of detail.
type Style string

const (
	StyleShort  Style = "short"
	StyleMedium Style = "medium"
	StyleLong   Style = "long"
	StyleFull   Style = "full"
)

func parseStyle(s string) (Style, bool) {
	switch st := Style(s); st {
	case StyleShort, StyleMedium, StyleLong, StyleFull:
		return st, true
	}

	return "", false
}

func dateLayout(style Style, loc monday.Locale) string {
	switch style {
	case StyleShort:
		switch loc {
		case monday.LocaleEnUS:
			return "1/2/06"
		case monday.LocaleDeDE:
			return "02.01.06"
		case monday.LocaleJaJP:
			return "06/01/02"
		case monday.LocaleZhCN, monday.LocaleZhTW:
			return "06/1/2"
		}

		return "02/01/06"
	case StyleMedium:
		switch loc {
		case monday.LocaleEnUS:
			return "Jan 2, 2006"
		case monday.LocaleDeDE:
			return "2. Jan. 2006"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日"
		}

		return "2 Jan 2006"
	case StyleLong:
		switch loc {
		case monday.LocaleEnUS:
			return "January 2, 2006"
		case monday.LocaleDeDE:
			return "2. January 2006"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日"
		}

		return "2 January 2006"
	}

	switch loc {
	case monday.LocaleEnUS:
		return "Monday, January 2, 2006"
	case monday.LocaleDeDE:
		return "Monday, 2. January 2006"
	case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
		return "2006年1月2日 Monday"
	}

	return "Monday, 2 January 2006"
}

func timeLayout(style Style, loc monday.Locale) string {
	h12 := loc == monday.LocaleEnUS

	switch {
	case style == StyleShort && h12:
		return "3:04 PM"
	case style == StyleShort:
		return "15:04"
	case style == StyleMedium && h12:
		return "3:04:05 PM"
	case style == StyleMedium:
		return "15:04:05"
	case h12:
		return "3:04:05 PM MST"
	}

	return "15:04:05 MST"
}

// Layout is a locale-bound format driven by a Go reference layout.
type Layout struct {
	layout string
	desc   string
	locale monday.Locale
	loc    *time.Location
}

// NewLayout returns a format rendering layout with the month and day names
// of locale.
func NewLayout(layout string, locale language.Tag, loc *time.Location) *Layout {
	if loc == nil {
		loc = time.UTC
	}

	return &Layout{layout: layout, desc: layout, locale: MondayLocale(locale), loc: loc}
}

// NewStyle returns a format for settings such as "medium" or, for date-time
// values, "short_long" (date style then time style).
func NewStyle(
	settings string, typ model.DateType, locale language.Tag, loc *time.Location,
) (*Layout, error) {
	dateStyle, timeStyle, found := strings.Cut(settings, "_")

	ds, ok := parseStyle(dateStyle)
	if !ok {
		return nil, &SyntaxError{Settings: settings, Msg: "unknown style \"" + dateStyle + "\""}
	}

	ts := ds
	if found {
		if ts, ok = parseStyle(timeStyle); !ok {
			return nil, &SyntaxError{
				Settings: settings,
				Pos:      len(dateStyle) + 1,
				Msg:      "unknown style \"" + timeStyle + "\"",
			}
		}
	}

	ml := MondayLocale(locale)

	var layout string

	switch typ {
	case model.DateTypeDate:
		layout = dateLayout(ds, ml)
	case model.DateTypeTime:
		layout = timeLayout(ts, ml)
	case model.DateTypeDateTime:
		layout = dateLayout(ds, ml) + " " + timeLayout(ts, ml)
	default:
		return nil, ErrUnsupportedDateType
	}

	f := NewLayout(layout, locale, loc)
	f.desc = settings

	return f, nil
}

// Format renders t in the configured zone. Zoneless values are rendered
// as is.
func (f *Layout) Format(t time.Time, zoneless bool) (string, error) {
	if !zoneless {
		t = t.In(f.loc)
	}

	return monday.Format(t, f.layout, f.locale), nil
}

func (f *Layout) Parse(s string) (time.Time, error) {
	t, err := monday.ParseInLocation(f.layout, s, f.loc, f.locale)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Layout: f.desc, Msg: err.Error()}
	}

	return t, nil
}

func (f *Layout) Description() string { return f.desc }
func (*Layout) IsLocaleBound() bool   { return true }
