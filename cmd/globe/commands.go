package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/OCAP2/globe/internal/app"
	"github.com/OCAP2/globe/internal/catalog"
	"github.com/OCAP2/globe/internal/clock"
	"github.com/OCAP2/globe/internal/config"
	"github.com/OCAP2/globe/internal/dispatcher"
	"github.com/OCAP2/globe/internal/geo"
	"github.com/OCAP2/globe/internal/ingest"
	"github.com/OCAP2/globe/internal/monitor"
	"github.com/OCAP2/globe/internal/render"
	"github.com/OCAP2/globe/internal/scene"
	"github.com/OCAP2/globe/internal/trajectory"
	"github.com/OCAP2/globe/internal/window"
	"github.com/OCAP2/globe/pkg/core"
)

type commandFunc func(ctx context.Context, rt *runtime, opts options) error

var commands = map[string]commandFunc{
	"run":      runWindow,
	"stats":    runStats,
	"snapshot": runSnapshot,
	"cities":   runCities,
	"export":   runExport,
}

// snapshotTimeout bounds the wait for the trajectory before a headless frame.
const snapshotTimeout = 30 * time.Second

func newFetcher(rt *runtime) *ingest.Fetcher {
	cfg := config.GetTrajectoryConfig()
	return ingest.NewFetcher(ingest.Config{
		Source:  cfg.Source,
		Timeout: cfg.Timeout,
		Policy:  ingest.ParsePolicy(cfg.Policy),
	}, rt.logger)
}

// openCatalog loads the built-in cities plus any from cities.extra.
func openCatalog(ctx context.Context, rt *runtime) (*catalog.Catalog, error) {
	cat, err := catalog.Open(ctx, rt.logger)
	if err != nil {
		return nil, err
	}

	points := catalog.DefaultCities()
	extra, err := config.GetExtraCities()
	if err != nil {
		rt.logger.Warn("Ignoring extra cities", "error", err)
	} else {
		points = append(points, extra...)
	}

	added, err := cat.Load(ctx, points)
	if err != nil {
		_ = cat.Close()
		return nil, err
	}
	rt.logger.Debug("City catalog ready", "cities", added, "extra", len(extra))
	return cat, nil
}

func assembleConfig() scene.AssembleConfig {
	sc := config.GetSceneConfig()
	cfg := scene.DefaultAssembleConfig()
	cfg.NightLights = sc.NightLights
	cfg.StarCount = sc.StarCount
	cfg.StarSeed = sc.StarSeed
	cfg.TiltDeg = sc.TiltDeg
	return cfg
}

// session is a started controller and everything it needs torn down.
type session struct {
	ctrl     *app.Controller
	textures *render.Textures
	cancel   context.CancelFunc
	d        *dispatcher.Dispatcher
	cat      *catalog.Catalog
}

func startSession(ctx context.Context, rt *runtime, watch bool, aspect float64) (*session, error) {
	cat, err := openCatalog(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("opening city catalog: %w", err)
	}

	clockCfg := config.GetClockConfig()
	clk, err := clock.New(clockCfg.Zones)
	if err != nil {
		_ = cat.Close()
		return nil, err
	}

	d, err := rt.newDispatcher()
	if err != nil {
		_ = cat.Close()
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	sceneCfg := assembleConfig()
	textures := render.NewTextures(config.GetSceneConfig().AssetsDir, rt.logger)
	textures.Preload(sceneCfg.GlobeTexture, sceneCfg.SkyTexture)
	if sceneCfg.NightLights {
		textures.Preload(sceneCfg.LightsTexture)
	}

	deps := app.Dependencies{
		Logger:        rt.logger,
		Dispatcher:    d,
		Fetcher:       newFetcher(rt),
		Catalog:       cat,
		Clock:         clk,
		ClockInterval: clockCfg.Interval,
		Scene:         sceneCfg,
		Watch:         watch,
		Aspect:        aspect,
		Textures:      textures,
	}
	if rt.sink != nil {
		deps.Stats = rt.sink
	}

	ctrl, err := app.New(deps)
	if err != nil {
		d.Close()
		_ = cat.Close()
		return nil, err
	}
	rt.setContext(ctrl.LogContext)

	sctx, cancel := context.WithCancel(ctx)
	if err := ctrl.Start(sctx); err != nil {
		cancel()
		d.Close()
		_ = cat.Close()
		return nil, err
	}
	return &session{ctrl: ctrl, textures: textures, cancel: cancel, d: d, cat: cat}, nil
}

func (s *session) Close() {
	s.cancel()
	s.ctrl.Wait()
	s.d.Close()
	_ = s.cat.Close()
}

func startMonitor(rt *runtime, ctrl *app.Controller) *monitor.Service {
	cfg := config.GetMonitorConfig()
	if !cfg.Enabled {
		return nil
	}
	deps := monitor.Dependencies{
		Logger:     rt.logger,
		Source:     ctrl.PerformanceSample,
		Interval:   cfg.Interval,
		StatusPath: cfg.StatusFile,
	}
	if rt.sink != nil {
		deps.Sink = rt.sink
	}
	svc := monitor.NewService(deps)
	if err := svc.Start(); err != nil {
		rt.logger.Error("Failed to start monitor", "error", err)
		return nil
	}
	return svc
}

func runWindow(ctx context.Context, rt *runtime, _ options) error {
	winCfg := config.GetWindowConfig()
	aspect := 0.0
	if winCfg.Height > 0 {
		aspect = float64(winCfg.Width) / float64(winCfg.Height)
	}

	s, err := startSession(ctx, rt, config.GetTrajectoryConfig().Watch, aspect)
	if err != nil {
		return err
	}
	defer s.Close()

	if mon := startMonitor(rt, s.ctrl); mon != nil {
		defer mon.Stop()
	}

	rt.logger.Info("Opening window", "width", winCfg.Width, "height", winCfg.Height)
	return window.Run(ctx, s.ctrl, render.NewRenderer(s.textures), winCfg)
}

func runSnapshot(ctx context.Context, rt *runtime, opts options) error {
	winCfg := config.GetWindowConfig()
	if winCfg.Width <= 0 || winCfg.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", winCfg.Width, winCfg.Height)
	}

	s, err := startSession(ctx, rt, false, float64(winCfg.Width)/float64(winCfg.Height))
	if err != nil {
		return err
	}
	defer s.Close()

	select {
	case <-s.ctrl.Loaded():
	case <-time.After(snapshotTimeout):
		rt.logger.Warn("Trajectory not loaded in time, rendering without it")
	case <-ctx.Done():
		return ctx.Err()
	}
	s.ctrl.Frame()

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", opts.output, err)
	}
	defer f.Close()

	start := time.Now()
	if err := render.Still(f, render.NewRenderer(s.textures), s.ctrl.Snapshot(), s.ctrl.Camera(), winCfg.Width, winCfg.Height); err != nil {
		return err
	}
	rt.logger.Info("Snapshot written", "path", opts.output, "duration", time.Since(start))
	fmt.Println(opts.output)
	return nil
}

func runStats(ctx context.Context, rt *runtime, opts options) error {
	f := newFetcher(rt)
	samples, err := f.Fetch(ctx)
	if err != nil {
		rt.logger.Error("Error reading coordinates", "source", f.Source(), "error", err)
		fmt.Println(trajectory.NoDataLine)
		return nil
	}

	stats, err := trajectory.Compute(samples)
	if err != nil {
		fmt.Println(trajectory.NoDataLine)
		return nil
	}
	if rt.sink != nil {
		if err := rt.sink.WriteStats(f.Source(), stats, time.Now()); err != nil {
			rt.logger.Error("Error writing trajectory stats", "error", err)
		}
	}

	if opts.html {
		fmt.Print(trajectory.FormatHTML(stats))
		return nil
	}
	for _, line := range trajectory.Summary(samples) {
		fmt.Println(line)
	}
	return nil
}

func runCities(ctx context.Context, rt *runtime, opts options) error {
	cat, err := openCatalog(ctx, rt)
	if err != nil {
		return err
	}
	defer cat.Close()

	var points []core.GeoPoint
	switch {
	case opts.find != "":
		p, err := cat.MustFind(ctx, opts.find)
		if err != nil {
			return err
		}
		points = []core.GeoPoint{p}
	case len(opts.within) > 0:
		if len(opts.within) != 4 {
			return fmt.Errorf("--within needs minLat,maxLat,minLon,maxLon, got %d values", len(opts.within))
		}
		w := opts.within
		if points, err = cat.Within(ctx, w[0], w[1], w[2], w[3]); err != nil {
			return err
		}
	default:
		if points, err = cat.All(ctx); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tLAT\tLON\tX\tY\tZ")
	for _, p := range points {
		pos := geo.Place(p, core.GlobeRadius)
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", p.Label, p.Latitude, p.Longitude, pos.X, pos.Y, pos.Z)
	}
	return tw.Flush()
}

func runExport(ctx context.Context, rt *runtime, _ options) error {
	f := newFetcher(rt)
	samples, err := f.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return trajectory.ErrEmptyTrajectory
	}

	line, err := geo.PolylineWKT(samples)
	if err != nil {
		return fmt.Errorf("building trajectory: %w", err)
	}
	track, err := geo.GroundTrackWKT(samples)
	if err != nil {
		return fmt.Errorf("building ground track: %w", err)
	}
	fmt.Println(line)
	fmt.Println(track)

	rt.logger.Info("Trajectory exported", "source", f.Source(), "samples", len(samples))
	return nil
}
