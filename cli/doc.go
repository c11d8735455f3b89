// Package cli contains the command line interface for ftl.
//
// # Usage
//
// The default command renders a template against a data model:
//
//	ftl -d data.yaml page.ftl
//	echo '${user.name?cap_first}' | ftl -d data.json
//
// Other commands evaluate single expressions, print a template in canonical
// form, list builtins, start an interactive shell and write a config file:
//
//	ftl -d data.yaml eval 'items?size' 'name?upper_case'
//	ftl fmt page.ftl
//	ftl builtins iso --format yaml
//	ftl -d data.yaml repl
//	ftl --output-format HTML init
//
// # Configuration
//
// Flags are read from, in increasing precedence, the config files
// config.json and config.yaml in the user config directory, environment
// variables prefixed with FTL_, and the command line. The YAML loader
// ([resolve]) accepts flag names spelled with hyphens or underscores:
//
//	output-format: HTML
//	time_zone: Europe/Berlin
//	template-path: [~/templates, /usr/share/ftl]
//
// The init command writes the current flag values in this form.
//
// # Engine Options
//
//   - --output-format: Output format of templates (undefined, HTML, XML, ...)
//   - --[no-]auto-escaping: Escape interpolations with the output format
//   - --incompatible-improvements: Select versioned builtin behaviors
//   - --time-zone, --locale: Zone and locale of formatted values
//   - --date-format, --time-format, --datetime-format: Date formats, such as
//     "iso", "xs" or "iso_m_nz"
//   - --number-format, --boolean-format: Number and boolean formats
//   - --template-path: Directories searched for templates, followed by the
//     entries of $FTL_PATH
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ftl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/ftl/pprof)
package cli
