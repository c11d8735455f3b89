package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ftl/lang/builtin"
)

// Builtins lists the builtin names, optionally fuzzy filtered.
type Builtins struct {
	Filter string `arg:"" help:"Fuzzy pattern matched against builtin names." name:"filter" optional:""`
	Format string `default:"text" enum:"text,json,yaml" help:"Output format." short:"F"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output." short:"i"`
}

// builtinInfo describes one builtin name.
type builtinInfo struct {
	Name     string   `json:"name"     yaml:"name"`
	Versions []string `json:"versions" yaml:"versions"`
}

var (
	letterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the builtins command.
func (b *Builtins) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	infos := b.list(builtin.Default())
	out := outputFrom(ctx)

	switch b.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", strings.Repeat(" ", b.Indent))

		if err := enc.Encode(infos); err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", b.Format))
		}

		return nil

	case "yaml":
		data, err := yaml.MarshalContext(ctx, infos, yaml.Indent(b.Indent))
		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", b.Format))
		}

		_, err = out.Write(data)

		return err
	}

	return writeBuiltinTable(out, infos, b.Filter == "")
}

// list returns the registered names matching the filter. Without a filter
// names are in lexicographic order, otherwise best match first.
func (b *Builtins) list(r *builtin.Registry) []builtinInfo {
	names := r.Names()

	if b.Filter != "" {
		matches := fuzzy.Find(b.Filter, names)

		names = make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Str
		}
	}

	infos := make([]builtinInfo, 0, len(names))

	for _, name := range names {
		d, ok := r.Lookup(name)
		if !ok {
			continue
		}

		info := builtinInfo{Name: name}
		for _, v := range d.Versions() {
			info.Versions = append(info.Versions, v.String())
		}

		infos = append(infos, info)
	}

	return infos
}

// writeBuiltinTable prints one name per line, grouped under their first
// letter when grouped is set. Names with more than one behavior list the
// versions that select them.
func writeBuiltinTable(w io.Writer, infos []builtinInfo, grouped bool) error {
	var (
		b      strings.Builder
		letter byte
	)

	for _, info := range infos {
		if grouped && info.Name[0] != letter {
			letter = info.Name[0]
			b.WriteString(letterStyle.Render(strings.ToUpper(string(letter))))
			b.WriteByte('\n')
		}

		b.WriteString("  ")
		b.WriteString(nameStyle.Render("?" + info.Name))

		if len(info.Versions) > 1 {
			b.WriteString(" ")
			b.WriteString(versionStyle.Render("[" + strings.Join(info.Versions, ", ") + "]"))
		}

		b.WriteByte('\n')
	}

	_, err := fmt.Fprint(w, b.String())

	return err
}
