package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/OCAP2/globe/internal/config"
	"github.com/OCAP2/globe/internal/dispatcher"
	"github.com/OCAP2/globe/internal/influx"
	"github.com/OCAP2/globe/internal/logging"
	intOtel "github.com/OCAP2/globe/internal/otel"
)

// runtime holds the ambient services shared by every command.
type runtime struct {
	session string
	start   time.Time
	level   string

	logFilePath string
	logFile     *os.File
	slogs       *logging.SlogManager
	logger      *slog.Logger

	otel *intOtel.Provider
	gelf *gelf.Writer
	sink *influx.Sink

	// extra log attributes, set once a controller exists
	extra atomic.Pointer[logging.ContextProvider]
}

func newRuntime(ctx context.Context) *runtime {
	rt := &runtime{
		session: uuid.NewString(),
		start:   time.Now(),
		level:   config.GetString("logLevel"),
		slogs:   logging.NewSlogManager(),
	}

	// console until the log file is open
	rt.slogs.Setup(rt.level, logging.Outputs{})
	rt.logger = rt.slogs.Logger()

	logsDir := config.GetString("logsDir")
	rt.logFilePath = logging.LogFilePath(logsDir, binaryName, rt.start)
	file, err := logging.OpenSessionLog(rt.logFilePath)
	if err != nil {
		rt.logger.Error("Failed to create/open log file!", "error", err, "path", rt.logFilePath)
	} else {
		rt.logFile = file
	}

	rt.setupOTel()
	rt.setupGraylog()
	rt.setupLogging()
	rt.setupInflux(ctx, logsDir)

	rt.logger.Info("Session started",
		"version", Version,
		"buildDate", BuildDate,
		"logFile", rt.logFilePath,
	)
	return rt
}

func (rt *runtime) setupOTel() {
	cfg := config.GetOTelConfig()
	if !cfg.Enabled {
		return
	}
	provider, err := intOtel.New(intOtel.Config{
		Enabled:        cfg.Enabled,
		ServiceName:    cfg.ServiceName,
		BatchTimeout:   cfg.BatchTimeout,
		LogWriter:      rt.fileWriter(),
		MetricWriter:   rt.fileWriter(),
		MetricInterval: cfg.MetricInterval,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
	})
	if err != nil {
		rt.logger.Error("Failed to initialize OTel provider", "error", err)
		return
	}
	rt.otel = provider
	if cfg.Endpoint != "" {
		rt.logger.Info("OTel provider initialized", "file", rt.logFilePath, "endpoint", cfg.Endpoint)
	} else {
		rt.logger.Info("OTel provider initialized", "file", rt.logFilePath)
	}
}

func (rt *runtime) setupGraylog() {
	cfg := config.GetGraylogConfig()
	if !cfg.Enabled {
		return
	}
	w, err := gelf.NewWriter(cfg.Address)
	if err != nil {
		rt.logger.Error("Failed to connect to Graylog", "error", err, "address", cfg.Address)
		return
	}
	rt.gelf = w
	rt.logger.Info("Graylog output enabled", "address", cfg.Address)
}

func (rt *runtime) setupLogging() {
	out := logging.Outputs{
		Context: rt.contextAttrs,
	}
	if rt.logFile != nil {
		out.File = rt.logFile
	}
	if rt.otel != nil {
		out.Provider = rt.otel.LoggerProvider()
	}
	if rt.gelf != nil {
		out.Graylog = rt.gelf
	}
	rt.slogs.Setup(rt.level, out)
	rt.logger = rt.slogs.Logger()
}

func (rt *runtime) setupInflux(ctx context.Context, logsDir string) {
	cfg := config.GetInfluxConfig()
	sink := influx.NewSink(influx.Config{
		Enabled:    cfg.Enabled,
		Protocol:   cfg.Protocol,
		Host:       cfg.Host,
		Port:       cfg.Port,
		Token:      cfg.Token,
		Org:        cfg.Org,
		BackupPath: logging.BackupFilePath(logsDir, binaryName, rt.start),
	}, rt.componentLogger("influx"))

	if err := sink.Connect(ctx); err != nil {
		if !errors.Is(err, influx.ErrDisabled) {
			rt.logger.Error("Failed to set up InfluxDB sink", "error", err)
		}
		return
	}
	rt.sink = sink
}

func (rt *runtime) fileWriter() *os.File {
	if rt.logFile != nil {
		return rt.logFile
	}
	return os.Stderr
}

// componentLogger returns the zerolog logger used by the dispatcher and the
// influx sink.
func (rt *runtime) componentLogger(component string) zerolog.Logger {
	return logging.NewZerolog(rt.fileWriter(), rt.level, component)
}

func (rt *runtime) newDispatcher() (*dispatcher.Dispatcher, error) {
	return dispatcher.New(logging.NewDispatcherLogger(rt.componentLogger("dispatcher")))
}

// setContext installs a provider whose attributes join the session id on
// every record.
func (rt *runtime) setContext(p logging.ContextProvider) {
	rt.extra.Store(&p)
}

func (rt *runtime) contextAttrs() []slog.Attr {
	attrs := []slog.Attr{logging.SessionAttr(rt.session)}
	if p := rt.extra.Load(); p != nil && *p != nil {
		attrs = append(attrs, (*p)()...)
	}
	return attrs
}

func (rt *runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if rt.sink != nil {
		if err := rt.sink.Close(); err != nil {
			rt.logger.Error("Error closing InfluxDB sink", "error", err)
		}
	}

	rt.logger.Info("Session finished", "duration", time.Since(rt.start))

	if err := rt.slogs.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "flushing logs: %v\n", err)
	}
	if rt.otel != nil {
		if err := rt.otel.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutting down OTel: %v\n", err)
		}
	}
	if rt.gelf != nil {
		_ = rt.gelf.Close()
	}
	if rt.logFile != nil {
		_ = rt.logFile.Close()
	}
}
