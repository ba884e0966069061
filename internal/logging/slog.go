package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName identifies this program in OTel and Graylog records.
const ServiceName = "globe"

// SlogManager manages slog-based logging with optional OTel and Graylog
// outputs.
type SlogManager struct {
	logger  *slog.Logger
	console io.Writer

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider
}

// Outputs lists the optional sinks beside the console or file.
type Outputs struct {
	// File receives text logs. When nil, logs go to the console instead.
	File io.Writer
	// Provider bridges records into OTel. Nil disables it.
	Provider *sdklog.LoggerProvider
	// Graylog receives GELF messages. Nil disables it.
	Graylog MessageWriter
	// Context adds dynamic attributes to every record.
	Context ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{console: os.Stdout}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. It may be called again to replace
// every output.
func (m *SlogManager) Setup(level string, out Outputs) {
	lvl := parseLevel(level)
	m.logProvider = out.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if out.File != nil {
		handlers = append(handlers, slog.NewTextHandler(out.File, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(m.console, handlerOpts))
	}

	if out.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(out.Provider)))
	}

	if out.Graylog != nil {
		handlers = append(handlers, NewGelfHandler(out.Graylog, lvl))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if out.Context != nil {
		handler = NewContextHandler(handler, out.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
