package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftl/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// The document is a flat mapping from flag names to values. If the document
// instead holds a mapping under the key name, that mapping is used. Values are
// converted as follows:
//   - Keys may spell flag names with hyphens or underscores
//   - Numbers become strings so Kong can parse them per flag type
//   - Sequences become comma-separated lists
//   - Booleans and strings are passed through
//
// Example config file:
//
//	log-level: debug
//	output-format: HTML
//	template-path:
//	  - ~/templates
//	  - /usr/share/ftl
//
// Command-line flags override config file values. A document that fails to
// parse is logged and ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil {
			if err != io.EOF {
				log.WarnContext(ctx, "ignoring config file",
					slog.String("error", err.Error()),
				)
			}

			return config{}, nil
		}

		if sub, ok := doc[name].(map[string]any); ok {
			doc = sub
		}

		return makeConfig(doc), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

func makeConfig(doc map[string]any) config {
	c := make(config, len(doc))

	for key, value := range doc {
		if value == nil {
			continue
		}

		c[key] = flagString(value)
	}

	return c
}

// flagString converts a decoded YAML value to the form Kong expects from a
// resolver.
func flagString(value any) any {
	switch v := value.(type) {
	case bool, string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		elem := make([]string, 0, len(v))
		for _, e := range v {
			s := fmt.Sprint(flagString(e))
			elem = append(elem, strings.ReplaceAll(s, ",", `\,`))
		}

		return strings.Join(elem, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
