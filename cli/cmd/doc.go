// Package cmd implements the ftl subcommands: render, eval, fmt, builtins,
// init and repl.
//
// Commands receive their dependencies through the [context.Context] passed
// to Run. The top-level CLI stores the parsed [kong.Context], the engine
// options assembled from global flags, the data model files and the output
// writer with [WithContext], [WithEngineOptions], [WithDataFiles] and
// [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
