package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func newCapturingManager() (*SlogManager, *bytes.Buffer) {
	var console bytes.Buffer
	m := NewSlogManager()
	m.console = &console
	return m, &console
}

func TestSetup_FileOnly_NoConsole(t *testing.T) {
	m, console := newCapturingManager()

	var fileBuf bytes.Buffer
	m.Setup("info", Outputs{File: &fileBuf})
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file", "log should appear in file")
	assert.Empty(t, console.String(), "nothing should be written to the console when a file is provided")
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	m, console := newCapturingManager()

	m.Setup("info", Outputs{})
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("debug", Outputs{File: &buf})

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup("info", Outputs{File: &buf})

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup("info", Outputs{File: &buf1})
	m.Logger().Info("first")

	m.Setup("info", Outputs{File: &buf2})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_ContextProvider(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	samples := 0
	m.Setup("info", Outputs{
		File: &buf,
		Context: func() []slog.Attr {
			return []slog.Attr{slog.Int("samples", samples)}
		},
	})

	samples = 42
	m.Logger().Info("frame")

	assert.Contains(t, buf.String(), "samples=42")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestFlush_NilProvider(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))
}

func TestFlush_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	m := NewSlogManager()

	var buf bytes.Buffer
	m.Setup("info", Outputs{File: &buf, Provider: provider})
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(h1, h2))
	logger.Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
}

func TestMultiHandler_FiltersNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, nil)

	multi := NewMultiHandler(nil, h, nil)
	require.Len(t, multi.handlers, 1)

	slog.New(multi).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestMultiHandler_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	infoOnly := NewMultiHandler(infoHandler)
	assert.False(t, infoOnly.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(context.Background(), slog.LevelInfo))

	both := NewMultiHandler(infoHandler, debugHandler)
	assert.True(t, both.Enabled(context.Background(), slog.LevelDebug))

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	multi := NewMultiHandler(h)

	slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "render")})).Info("with attrs")
	slog.New(multi.WithGroup("camera")).Info("grouped", "distance", 5)

	assert.Contains(t, buf.String(), "component=render")
	assert.Contains(t, buf.String(), "camera.distance=5")
	assert.Equal(t, multi, multi.WithGroup(""), "empty group name should return same handler")
}

// errorHandler is a slog.Handler that always returns an error from Handle.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestMultiHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	slog.New(NewMultiHandler(&errorHandler{}, spy)).Info("should reach spy")

	assert.Contains(t, buf.String(), "should reach spy")
}

type fakeGelf struct {
	mu       sync.Mutex
	messages []*gelf.Message
}

func (f *fakeGelf) WriteMessage(m *gelf.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
	return nil
}

func TestSetup_Graylog(t *testing.T) {
	g := &fakeGelf{}
	m := NewSlogManager()
	var buf bytes.Buffer
	m.Setup("info", Outputs{File: &buf, Graylog: g})

	m.Logger().Warn("Texture unavailable", "texture", "earth.jpg")

	require.Len(t, g.messages, 2, "init message plus warning")
	msg := g.messages[1]
	assert.Equal(t, "Texture unavailable", msg.Short)
	assert.Equal(t, int32(4), msg.Level)
	assert.Equal(t, "earth.jpg", msg.Extra["_texture"])
	assert.Equal(t, ServiceName, msg.Facility)
}

func TestGelfHandler_GroupsAndLevels(t *testing.T) {
	g := &fakeGelf{}
	logger := slog.New(NewGelfHandler(g, slog.LevelDebug)).
		With("session", "abc").
		WithGroup("stats")

	logger.Debug("computed", "samples", 3, slog.Group("height", "max", 408.5))
	logger.Error("failed", "ok", false)

	require.Len(t, g.messages, 2)
	assert.Equal(t, int32(7), g.messages[0].Level)
	assert.Equal(t, "abc", g.messages[0].Extra["_session"])
	assert.Equal(t, int64(3), g.messages[0].Extra["_stats.samples"])
	assert.Equal(t, 408.5, g.messages[0].Extra["_stats.height.max"])
	assert.Equal(t, int32(3), g.messages[1].Level)
	assert.Equal(t, false, g.messages[1].Extra["_stats.ok"])
}

func TestGelfHandler_Enabled(t *testing.T) {
	h := NewGelfHandler(&fakeGelf{}, slog.LevelWarn)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
