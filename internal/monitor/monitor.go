// Package monitor periodically samples frame and scene performance, logs it
// and forwards it to the telemetry sink.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/OCAP2/globe/internal/scene"
)

// DefaultInterval is used when Dependencies.Interval is not set.
const DefaultInterval = 30 * time.Second

// Sample is one performance snapshot.
type Sample struct {
	Time            time.Time     `json:"time"`
	Frames          int           `json:"frames"`
	LastFrame       time.Duration `json:"lastFrameNs"`
	InputQueue      int           `json:"inputQueue"`
	InputDropped    int           `json:"inputDropped"`
	TexturesLoaded  int           `json:"texturesLoaded"`
	Scene           scene.Counts  `json:"scene"`
	TrajectoryReady bool          `json:"trajectoryReady"`
}

// Fields flattens the sample for a telemetry point.
func (s Sample) Fields() map[string]any {
	return map[string]any{
		"frames":            s.Frames,
		"last_frame_ms":     float64(s.LastFrame) / float64(time.Millisecond),
		"input_queue":       s.InputQueue,
		"input_dropped":     s.InputDropped,
		"textures_loaded":   s.TexturesLoaded,
		"markers":           s.Scene.Markers,
		"stars":             s.Scene.Stars,
		"trajectory_points": s.Scene.TrajectoryPoints,
		"trajectory_ready":  s.TrajectoryReady,
	}
}

// PerformanceWriter receives samples, typically the influx sink.
type PerformanceWriter interface {
	WritePerformance(fields map[string]any, at time.Time) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger   *slog.Logger
	Source   func() Sample
	Sink     PerformanceWriter
	Interval time.Duration
	// StatusPath, when set, is rewritten with the latest sample as JSON.
	StatusPath string
}

// Service manages performance monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
	last      Sample
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the monitor goroutine is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Last returns the most recent sample.
func (s *Service) Last() Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Tick takes one sample and publishes it.
func (s *Service) Tick() Sample {
	sample := s.deps.Source()
	if sample.Time.IsZero() {
		sample.Time = time.Now()
	}

	s.mu.Lock()
	s.last = sample
	s.mu.Unlock()

	s.deps.Logger.Debug("Performance sample",
		"frames", sample.Frames,
		"lastFrame", sample.LastFrame,
		"inputQueue", sample.InputQueue,
		"trajectoryPoints", sample.Scene.TrajectoryPoints,
	)

	if s.deps.Sink != nil {
		if err := s.deps.Sink.WritePerformance(sample.Fields(), sample.Time); err != nil {
			s.deps.Logger.Error("Error writing performance sample", "error", err)
		}
	}
	if s.deps.StatusPath != "" {
		if err := writeStatus(s.deps.StatusPath, sample); err != nil {
			s.deps.Logger.Error("Error writing status file", "error", err)
		}
	}
	return sample
}

func writeStatus(path string, sample Sample) error {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Start starts the monitor goroutine
func (s *Service) Start() error {
	if s.deps.Source == nil {
		return fmt.Errorf("monitor has no sample source")
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting performance monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()

	return nil
}

// Stop stops the monitor and waits for its goroutine to exit
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
