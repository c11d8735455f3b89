package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/ftl/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
	)

	logger.Info("template rendered", slog.String("name", "index.ftl"))
	// Output: {"level":"INFO","msg":"template rendered","name":"index.ftl"}
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelWarn),
	)

	logger.Info("hidden")
	logger.Warn("shown")
	// Output: {"level":"WARN","msg":"shown"}
}
