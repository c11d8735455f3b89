package outputformat

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
)

var registry = struct {
	sync.RWMutex

	byName map[string]Format
	byFold map[string]Format // lower-cased name, first registration wins
}{
	byName: map[string]Format{},
	byFold: map[string]Format{},
}

func init() {
	for _, f := range []Format{HTML, XHTML, XML, RTF, PlainText, Undefined, JavaScript, JSON, CSS} {
		addLocked(f)
	}
}

// Lookup returns the format registered under name. Names are matched
// exactly first, then case-insensitively against the earliest format
// registered under that spelling.
func Lookup(name string) (Format, error) {
	registry.RLock()
	defer registry.RUnlock()

	if f, ok := registry.byName[name]; ok {
		return f, nil
	}

	if f, ok := registry.byFold[strings.ToLower(name)]; ok {
		return f, nil
	}

	return nil, ErrUnknownOutputFormat.With(
		slog.String("name", name),
		slog.Any("known", namesLocked()),
	)
}

// Register adds a custom format. Names of built-in and previously
// registered formats cannot be reused.
func Register(f Format) error {
	registry.Lock()
	defer registry.Unlock()

	if _, ok := registry.byName[f.Name()]; ok {
		return ErrAlreadyRegistered.With(slog.String("name", f.Name()))
	}

	addLocked(f)

	return nil
}

func addLocked(f Format) {
	registry.byName[f.Name()] = f

	if fold := strings.ToLower(f.Name()); registry.byFold[fold] == nil {
		registry.byFold[fold] = f
	}
}

// Names returns the names of all registered formats in sorted order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()

	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry.byName))
	for n := range registry.byName {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// NewMarkupFormat returns a markup format escaping with the given
// replacement pairs (old, new, ...), bypassing the named legacy builtins.
func NewMarkupFormat(name, mime string, replacements []string, bypass ...string) *MarkupFormat {
	return &MarkupFormat{
		name:   name,
		mime:   mime,
		esc:    strings.NewReplacer(replacements...),
		bypass: slices.Clone(bypass),
	}
}
