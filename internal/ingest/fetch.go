package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/OCAP2/globe/pkg/core"
)

// maxBodyBytes caps how much of a trajectory resource is read. Anything
// larger fails with ErrTooLarge instead of being cut off mid-line.
var maxBodyBytes int64 = 64 << 20

// ErrTooLarge is returned when the resource is bigger than maxBodyBytes.
var ErrTooLarge = errors.New("trajectory too large")

// Config describes where the trajectory lives and how to read it.
type Config struct {
	Source  string        // local path or http(s) URL
	Timeout time.Duration // HTTP only
	Policy  Policy
}

// Fetcher performs the one static fetch of the trajectory resource.
type Fetcher struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a new Fetcher. A nil logger falls back to slog.Default().
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Fetcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Source returns the configured resource location.
func (f *Fetcher) Source() string { return f.cfg.Source }

// IsRemote reports whether the source is fetched over HTTP.
func (f *Fetcher) IsRemote() bool { return isRemote(f.cfg.Source) }

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch reads and parses the resource, returning any failure.
func (f *Fetcher) Fetch(ctx context.Context) ([]core.RawSample, error) {
	body, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	samples, err := Parse(newCappedReader(body, maxBodyBytes), f.cfg.Policy, f.logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.cfg.Source, err)
	}
	return samples, nil
}

// Load is Fetch with the degrade-to-empty policy: failures are logged and an
// empty sequence is returned so the rest of the scene still renders.
func (f *Fetcher) Load(ctx context.Context) []core.RawSample {
	start := time.Now()
	samples, err := f.Fetch(ctx)
	if err != nil {
		f.logger.Error("Error reading coordinates", "source", f.cfg.Source, "error", err)
		return []core.RawSample{}
	}
	f.logger.Info("Trajectory loaded",
		"source", f.cfg.Source,
		"samples", len(samples),
		"duration", time.Since(start),
	)
	return samples
}

func (f *Fetcher) open(ctx context.Context) (io.ReadCloser, error) {
	if f.cfg.Source == "" {
		return nil, fmt.Errorf("no trajectory source configured")
	}

	if !isRemote(f.cfg.Source) {
		file, err := os.Open(strings.TrimPrefix(f.cfg.Source, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to open trajectory file: %w", err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trajectory request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to load %s: status %d", f.cfg.Source, resp.StatusCode)
	}
	return resp.Body, nil
}

// cappedReader reads up to max bytes and fails once one more is available.
type cappedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func newCappedReader(r io.Reader, max int64) *cappedReader {
	return &cappedReader{r: io.LimitReader(r, max+1), max: max}
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n, fmt.Errorf("%w: trajectory exceeds %d bytes", ErrTooLarge, c.max)
	}
	return n, err
}
