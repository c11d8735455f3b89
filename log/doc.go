// Package log provides a concurrency-safe structured logger built on
// [log/slog], with an additional Trace level.
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The zero Logger discards everything. Engine components accept a Logger in
// their configuration and log through it unconditionally.
//
// Text output is styled with lipgloss unless disabled with [WithPretty];
// styling is dropped automatically when the output is not a terminal.
//
// Package-level functions ([Info], [DebugContext], ...) write through a
// default logger that [Config] reconfigures.
package log
