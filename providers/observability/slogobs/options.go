package slogobs

import (
	"io"
	"log/slog"
	"os"
)

// Option is a functional option for configuring the Observer.
type Option func(*config)

type config struct {
	format Format
	level  slog.Level
	output io.Writer
	logger *slog.Logger
}

// WithFormat sets the log output format.
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the output writer for logs.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithLogger uses an existing slog.Logger. It takes precedence over the
// format, level and output options.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		format: GetFormatFromEnv(),
		level:  GetLogLevelFromEnv(),
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) newLogger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	handlerOpts := &slog.HandlerOptions{
		Level: c.level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if c.format == FormatJSON {
		return slog.New(slog.NewJSONHandler(c.output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(c.output, handlerOpts))
}
