package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the gateway's logger. LOG_FORMAT=json selects the
// machine-readable handler; anything else logs as text, which reads
// better during local runs against a dev backend.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
