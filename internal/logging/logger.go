package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/hrbank/internal/config"
)

// NewLogger creates the structured logger shared by both binaries. component
// names the binary ("hrbank-api", "worker").
func NewLogger(cfg *config.Config, component string) zerolog.Logger {
	return newLogger(os.Stdout, cfg, component)
}

func newLogger(w io.Writer, cfg *config.Config, component string) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if component != "" {
		ctx = ctx.Str("component", component)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return ctx.Logger().Level(level)
}
