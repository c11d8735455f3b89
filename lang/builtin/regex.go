package builtin

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

// regexFlags is the parsed flags argument of the regular expression
// builtins:
//
//	i  case insensitive
//	r  treat the pattern as a regular expression
//	m  multi-line mode
//	s  dot matches line breaks
//	c  permit comments (accepted, no effect)
//	f  first match only
type regexFlags struct {
	caseless, regex, multiline, dotAll, first bool
}

func parseRegexFlags(key, flags string) (regexFlags, error) {
	var f regexFlags

	for _, c := range flags {
		switch c {
		case 'i':
			f.caseless = true
		case 'r':
			f.regex = true
		case 'm':
			f.multiline = true
		case 's':
			f.dotAll = true
		case 'f':
			f.first = true
		case 'c':
		default:
			return f, ErrInvalidArg.With(
				slog.String("builtin", "?"+key),
				slog.String("flags", flags),
				slog.String("reason", "unknown flag "+string(c)),
			)
		}
	}

	return f, nil
}

var regexCache sync.Map // string -> *regexp.Regexp

// compile returns the expression for pattern, quoted unless the r flag is
// set or regex is forced.
func (f regexFlags) compile(key, pattern string, regex bool) (*regexp.Regexp, error) {
	if !regex && !f.regex {
		pattern = regexp.QuoteMeta(pattern)
	}

	var prefix string
	if f.caseless || f.multiline || f.dotAll {
		prefix = "(?"
		if f.caseless {
			prefix += "i"
		}

		if f.multiline {
			prefix += "m"
		}

		if f.dotAll {
			prefix += "s"
		}

		prefix += ")"
	}

	src := prefix + pattern
	if re, ok := regexCache.Load(src); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, ErrInvalidArg.Wrap(err).With(
			slog.String("builtin", "?"+key),
			slog.String("pattern", pattern),
		)
	}

	regexCache.Store(src, re)

	return re, nil
}

func registerRegex(r *Registry) {
	single(r, "matches", matches)
	single(r, "groups", groups)
	single(r, "replace", replace)
	single(r, "split", split)
}

func matches(in *Invocation, env expr.Env) (model.Value, error) {
	s, err := in.str(env)
	if err != nil {
		return nil, err
	}

	return in.method(1, 2, func(args []model.Value) (model.Value, error) {
		pattern, err := RequireString(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		flagArg, err := OptString(in.key, args, 1, "")
		if err != nil {
			return nil, err
		}

		flags, err := parseRegexFlags(in.key, flagArg)
		if err != nil {
			return nil, err
		}

		re, err := flags.compile(in.key, pattern, true)
		if err != nil {
			return nil, err
		}

		return newMatchResult(re, s, flags.first), nil
	}), nil
}

// matchResult is the result of ?matches: true if the whole text matched,
// and the sequence of every match found in it.
type matchResult struct {
	whole []string // groups of the whole-text match, nil if none
	found model.List
}

func newMatchResult(re *regexp.Regexp, s string, first bool) *matchResult {
	m := &matchResult{}

	full := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	if g := full.FindStringSubmatch(s); g != nil {
		m.whole = g
	}

	n := -1
	if first {
		n = 1
	}

	for _, g := range re.FindAllStringSubmatch(s, n) {
		m.found = append(m.found, &regexMatch{groups: g})
	}

	return m
}

func (*matchResult) TypeName() string       { return "sequence" }
func (m *matchResult) AsBool() bool         { return m.whole != nil }
func (m *matchResult) Len() int             { return len(m.found) }
func (m *matchResult) At(i int) model.Value { return m.found[i] }

// regexMatch is one match; its text is the matched substring.
type regexMatch struct {
	groups []string
}

func (*regexMatch) TypeName() string   { return "string" }
func (m *regexMatch) AsString() string { return m.groups[0] }

func groups(in *Invocation, env expr.Env) (model.Value, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	var g []string

	switch x := v.(type) {
	case *matchResult:
		g = x.whole
	case *regexMatch:
		g = x.groups
	default:
		return nil, in.targetError(v, "result of ?matches")
	}

	out := make(model.List, len(g))
	for i, s := range g {
		out[i] = model.String(s)
	}

	return out, nil
}

func replace(in *Invocation, env expr.Env) (model.Value, error) {
	s, err := in.str(env)
	if err != nil {
		return nil, err
	}

	return in.method(2, 3, func(args []model.Value) (model.Value, error) {
		from, err := RequireString(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		to, err := RequireString(in.key, args, 1)
		if err != nil {
			return nil, err
		}

		flagArg, err := OptString(in.key, args, 2, "")
		if err != nil {
			return nil, err
		}

		flags, err := parseRegexFlags(in.key, flagArg)
		if err != nil {
			return nil, err
		}

		if !flags.regex && !flags.caseless {
			n := -1
			if flags.first {
				n = 1
			}

			return model.String(strings.Replace(s, from, to, n)), nil
		}

		re, err := flags.compile(in.key, from, false)
		if err != nil {
			return nil, err
		}

		if !flags.regex {
			to = strings.ReplaceAll(to, "$", "$$")
		}

		if !flags.first {
			return model.String(re.ReplaceAllString(s, to)), nil
		}

		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			return model.String(s), nil
		}

		out := re.ExpandString(nil, to, s, loc)

		return model.String(s[:loc[0]] + string(out) + s[loc[1]:]), nil
	}), nil
}

func split(in *Invocation, env expr.Env) (model.Value, error) {
	s, err := in.str(env)
	if err != nil {
		return nil, err
	}

	return in.method(1, 2, func(args []model.Value) (model.Value, error) {
		sep, err := RequireString(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		flagArg, err := OptString(in.key, args, 1, "")
		if err != nil {
			return nil, err
		}

		flags, err := parseRegexFlags(in.key, flagArg)
		if err != nil {
			return nil, err
		}

		var parts []string

		if !flags.regex && !flags.caseless {
			parts = strings.Split(s, sep)
		} else {
			re, err := flags.compile(in.key, sep, false)
			if err != nil {
				return nil, err
			}

			parts = re.Split(s, -1)
		}

		out := make(model.List, len(parts))
		for i, p := range parts {
			out[i] = model.String(p)
		}

		return out, nil
	}), nil
}
