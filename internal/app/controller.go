// Package app wires the scene, the trajectory pipeline, the clock and the
// input queue into one controller the window drives frame by frame.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OCAP2/globe/internal/cache"
	"github.com/OCAP2/globe/internal/catalog"
	"github.com/OCAP2/globe/internal/clock"
	"github.com/OCAP2/globe/internal/dispatcher"
	"github.com/OCAP2/globe/internal/ingest"
	"github.com/OCAP2/globe/internal/logging"
	"github.com/OCAP2/globe/internal/monitor"
	"github.com/OCAP2/globe/internal/queue"
	"github.com/OCAP2/globe/internal/scene"
	"github.com/OCAP2/globe/internal/trajectory"
	"github.com/OCAP2/globe/pkg/core"
)

// Command names routed through the dispatcher.
const (
	CmdLoadTrajectory   = "trajectory.load"
	CmdReloadTrajectory = "trajectory.reload"
	CmdClockTick        = "clock.tick"
)

// MaxPendingInput bounds the input queue between two frames.
const MaxPendingInput = 256

// StatsWriter receives the stats of every successful load.
type StatsWriter interface {
	WriteStats(source string, stats core.TrajectoryStats, at time.Time) error
}

// TextureCounter reports how many textures are decoded.
type TextureCounter interface {
	Loaded() int
}

// Dependencies holds everything the controller needs.
type Dependencies struct {
	Logger        *slog.Logger
	Dispatcher    *dispatcher.Dispatcher
	Fetcher       *ingest.Fetcher
	Catalog       *catalog.Catalog
	Clock         *clock.Clock
	ClockInterval time.Duration
	Scene         scene.AssembleConfig
	Watch         bool
	Aspect        float64

	// Optional.
	Stats    StatsWriter
	Textures TextureCounter
}

// Controller owns the scene and the camera. Input is queued by the window
// and applied in Frame, so the camera only changes on the frame path.
type Controller struct {
	deps  Dependencies
	input *queue.Queue[InputEvent]

	scene *scene.Scene
	ctx   context.Context

	mu         sync.RWMutex
	cam        scene.Camera
	statsLines []string
	clockLines []string
	samples    int
	ready      bool

	frames    cache.SafeCounter
	lastFrame atomic.Int64

	loaded     chan struct{}
	loadedOnce sync.Once
	wg         sync.WaitGroup
}

// New validates the dependencies and prepares an idle controller.
func New(deps Dependencies) (*Controller, error) {
	if deps.Dispatcher == nil || deps.Fetcher == nil || deps.Catalog == nil || deps.Clock == nil {
		return nil, errors.New("controller needs a dispatcher, fetcher, catalog and clock")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Aspect <= 0 {
		deps.Aspect = 16.0 / 9.0
	}

	return &Controller{
		deps:       deps,
		input:      queue.New[InputEvent](MaxPendingInput),
		cam:        scene.DefaultCamera(deps.Aspect),
		statsLines: []string{trajectory.NoDataLine},
		loaded:     make(chan struct{}),
	}, nil
}

// Start builds the static scene, then kicks off the trajectory load, the
// clock and, if configured, the file watcher. Background work stops when
// ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	cities, err := c.deps.Catalog.All(ctx)
	if err != nil {
		return fmt.Errorf("loading cities: %w", err)
	}
	c.ctx = ctx
	c.scene = scene.Assemble(c.deps.Scene, cities)
	c.deps.Logger.Info("Scene assembled", "cities", len(cities), "stars", c.deps.Scene.StarCount)

	d := c.deps.Dispatcher
	d.Register(CmdLoadTrajectory, c.handleLoad, dispatcher.Buffered(1), dispatcher.Logged())
	d.Register(CmdReloadTrajectory, c.handleReload)
	d.Register(CmdClockTick, c.handleClockTick)

	if _, err := d.Dispatch(dispatcher.Command{Name: CmdLoadTrajectory}); err != nil {
		return fmt.Errorf("queueing trajectory load: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.deps.Clock.Run(ctx, c.deps.ClockInterval, func(lines []string) {
			if _, err := d.Dispatch(dispatcher.Command{Name: CmdClockTick, Args: lines}); err != nil && !errors.Is(err, dispatcher.ErrClosed) {
				c.deps.Logger.Error("Clock update failed", "error", err)
			}
		})
	}()

	if c.deps.Watch {
		c.startWatcher(ctx)
	}
	return nil
}

func (c *Controller) startWatcher(ctx context.Context) {
	if c.deps.Fetcher.IsRemote() {
		c.deps.Logger.Warn("Ignoring watch for a remote trajectory source", "source", c.deps.Fetcher.Source())
		return
	}
	path := strings.TrimPrefix(c.deps.Fetcher.Source(), "file://")
	w := ingest.NewWatcher(path, ingest.DefaultDebounce, c.deps.Logger)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := w.Run(ctx, func() {
			c.deps.Logger.Info("Trajectory file changed, reloading", "path", path)
			if _, err := c.deps.Dispatcher.Dispatch(dispatcher.Command{Name: CmdReloadTrajectory}); err != nil {
				c.deps.Logger.Error("Reload failed", "error", err)
			}
		})
		if err != nil {
			c.deps.Logger.Error("Trajectory watcher stopped", "error", err)
		}
	}()
}

// Wait blocks until the background goroutines started by Start return.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) handleLoad(cmd dispatcher.Command) (any, error) {
	samples := c.deps.Fetcher.Load(c.ctx)
	c.applyTrajectory(samples)
	c.loadedOnce.Do(func() { close(c.loaded) })
	return len(samples), nil
}

func (c *Controller) applyTrajectory(samples []core.RawSample) {
	c.scene.ReplaceTrajectory(scene.TrajectoryLayer(samples))

	c.mu.Lock()
	c.statsLines = trajectory.Summary(samples)
	c.samples = len(samples)
	c.ready = true
	c.mu.Unlock()

	stats, err := trajectory.Compute(samples)
	if err != nil {
		c.deps.Logger.Warn("Trajectory has no samples", "source", c.deps.Fetcher.Source())
		return
	}
	c.deps.Logger.Info("Trajectory stats",
		"maxHeight", stats.MaxHeight,
		"minHeight", stats.MinHeight,
		"losDistance", stats.LineOfSightDistance,
		"totalDistance", stats.TotalDistance,
	)
	if c.deps.Stats != nil {
		if err := c.deps.Stats.WriteStats(c.deps.Fetcher.Source(), stats, time.Now()); err != nil {
			c.deps.Logger.Error("Error writing trajectory stats", "error", err)
		}
	}
}

// handleReload queues a load. A load that is already waiting will read the
// new file anyway, so a full queue is not an error.
func (c *Controller) handleReload(cmd dispatcher.Command) (any, error) {
	res, err := c.deps.Dispatcher.Dispatch(dispatcher.Command{Name: CmdLoadTrajectory, Issued: cmd.Issued})
	if errors.Is(err, dispatcher.ErrQueueFull) {
		c.deps.Logger.Debug("Reload coalesced with a pending load")
		return "coalesced", nil
	}
	return res, err
}

func (c *Controller) handleClockTick(cmd dispatcher.Command) (any, error) {
	c.mu.Lock()
	c.clockLines = append([]string(nil), cmd.Args...)
	c.mu.Unlock()
	return nil, nil
}

// Loaded is closed once the first trajectory load has finished, whether it
// found any samples or not.
func (c *Controller) Loaded() <-chan struct{} {
	return c.loaded
}

// PushInput queues an input event for the next frame. Safe from any goroutine.
func (c *Controller) PushInput(ev InputEvent) {
	if dropped := c.input.Push(ev); dropped > 0 {
		c.deps.Logger.Debug("Input queue full, dropped oldest events", "dropped", dropped)
	}
}

// Frame applies queued input to the camera and moves the light with it.
func (c *Controller) Frame() {
	events := c.input.Drain()

	c.mu.Lock()
	for _, ev := range events {
		ev.apply(&c.cam)
	}
	cam := c.cam
	c.mu.Unlock()

	if c.scene != nil {
		c.scene.SetDirectionalLight(scene.LightFromCamera(cam))
	}
	c.frames.Inc()
}

// FrameRendered records how long the last frame took to draw.
func (c *Controller) FrameRendered(d time.Duration) {
	c.lastFrame.Store(int64(d))
}

// Camera returns a copy of the current camera.
func (c *Controller) Camera() scene.Camera {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cam
}

// SetAspect updates the camera aspect ratio after a resize.
func (c *Controller) SetAspect(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	c.cam.Aspect = aspect
	c.mu.Unlock()
}

// Snapshot returns the scene for drawing. It is empty before Start.
func (c *Controller) Snapshot() scene.Snapshot {
	if c.scene == nil {
		return scene.Snapshot{}
	}
	return c.scene.Snapshot()
}

// StatsLines returns the trajectory stats panel.
func (c *Controller) StatsLines() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.statsLines...)
}

// ClockLines returns the time panel. It is empty until the first tick.
func (c *Controller) ClockLines() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.clockLines...)
}

// LogContext returns attributes added to every log record.
func (c *Controller) LogContext() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return logging.SceneAttrs(c.deps.Fetcher.Source(), c.samples)
}

// PerformanceSample feeds the monitor.
func (c *Controller) PerformanceSample() monitor.Sample {
	c.mu.RLock()
	ready := c.ready
	c.mu.RUnlock()

	s := monitor.Sample{
		Time:            time.Now(),
		Frames:          c.frames.Value(),
		LastFrame:       time.Duration(c.lastFrame.Load()),
		InputQueue:      c.input.Len(),
		InputDropped:    c.input.Dropped(),
		TrajectoryReady: ready,
	}
	if c.scene != nil {
		s.Scene = c.scene.Counts()
	}
	if c.deps.Textures != nil {
		s.TexturesLoaded = c.deps.Textures.Loaded()
	}
	return s
}
