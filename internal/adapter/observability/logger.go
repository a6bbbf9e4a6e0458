package observability

import (
	"log/slog"
	"os"

	"github.com/fairyhunter13/resume-match/internal/config"
)

// SetupLogger configures the process-wide JSON slog logger with service and
// environment fields. Dev runs at debug level.
func SetupLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
	slog.SetDefault(logger)
	return logger
}
