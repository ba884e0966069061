// Package influx ships trajectory and performance telemetry to InfluxDB, or
// to a gzip line-protocol file when the server cannot be reached.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/OCAP2/globe/pkg/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

const (
	BucketStats       = "trajectory_stats"
	BucketPerformance = "globe_performance"
)

// DefaultBucketNames are the buckets the sink writes to.
var DefaultBucketNames = []string{BucketStats, BucketPerformance}

// ErrDisabled is returned by Connect when the sink is switched off.
var ErrDisabled = errors.New("influx sink disabled")

// Config holds the connection settings.
type Config struct {
	Enabled    bool
	Protocol   string
	Host       string
	Port       string
	Token      string
	Org        string
	BackupPath string
}

// URL is the server address built from the protocol, host and port.
func (c Config) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// Sink writes points to InfluxDB or the backup file.
type Sink struct {
	cfg    Config
	logger zerolog.Logger

	mu          sync.Mutex
	client      influxdb2.Client
	writers     map[string]influxdb2_api.WriteAPI
	backupFile  *os.File
	backup      *gzip.Writer
	valid       bool
	bucketNames []string
}

// NewSink creates a sink. Nothing is opened until Connect.
func NewSink(cfg Config, log zerolog.Logger) *Sink {
	return &Sink{
		cfg:         cfg,
		logger:      log,
		writers:     make(map[string]influxdb2_api.WriteAPI),
		bucketNames: DefaultBucketNames,
	}
}

// Connect pings the server. If it is unhealthy, points go to the backup
// file instead.
func (s *Sink) Connect(ctx context.Context) error {
	if !s.cfg.Enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = influxdb2.NewClientWithOptions(
		s.cfg.URL(),
		s.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := s.client.Ping(ctx)
	if err != nil || !running {
		s.valid = false
		if s.backup == nil {
			s.logger.Info().Str("backupPath", s.cfg.BackupPath).
				Msg("Failed to reach InfluxDB, writing to backup file")
			file, err := os.OpenFile(s.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %w", err)
			}
			s.backupFile = file
			s.backup = gzip.NewWriter(file)
		}
		s.logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
		return nil
	}

	s.valid = true
	if err := s.setupOrganizationAndBuckets(ctx); err != nil {
		return err
	}
	s.createWriters()
	s.logger.Info().Msg("InfluxDB client initialized")
	return nil
}

func (s *Sink) setupOrganizationAndBuckets(ctx context.Context) error {
	orgs := s.client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, s.cfg.Org)
	if err != nil {
		s.logger.Info().Str("org", s.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, s.cfg.Org)
		if err != nil {
			s.logger.Error().Err(err).Str("org", s.cfg.Org).Msg("Error creating organization")
			return err
		}
	}

	// telemetry is short-lived; keep 30 days
	for _, bucket := range s.bucketNames {
		if _, err := s.client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		s.logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = s.client.BucketsAPI().CreateBucketWithName(ctx, org, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 30,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
			return err
		}
	}

	return nil
}

func (s *Sink) createWriters() {
	for _, bucket := range s.bucketNames {
		w := s.client.WriteAPI(s.cfg.Org, bucket)
		s.writers[bucket] = w

		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				s.logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, w.Errors())
	}
	s.logger.Debug().Int("buckets", len(s.bucketNames)).Msg("InfluxDB writers initialized")
}

// Online reports whether points are going to the server.
func (s *Sink) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// WritePoint writes a point to InfluxDB or the backup file.
func (s *Sink) WritePoint(bucket string, point *influxdb2_write.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid {
		w, ok := s.writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	if s.backup == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := s.backup.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// WriteStats records the stats of one trajectory load.
func (s *Sink) WriteStats(source string, stats core.TrajectoryStats, at time.Time) error {
	return s.WritePoint(BucketStats, StatsPoint(source, stats, at))
}

// WritePerformance records one performance sample.
func (s *Sink) WritePerformance(fields map[string]any, at time.Time) error {
	return s.WritePoint(BucketPerformance, influxdb2.NewPoint("globe_performance", nil, fields, at))
}

// StatsPoint converts trajectory stats into a point tagged with its source.
func StatsPoint(source string, stats core.TrajectoryStats, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"trajectory_stats",
		map[string]string{"source": source},
		map[string]any{
			"max_height":   stats.MaxHeight,
			"min_height":   stats.MinHeight,
			"los_distance": stats.LineOfSightDistance,
			"total":        stats.TotalDistance,
			"samples":      stats.Samples,
		},
		at,
	)
}

// Close flushes pending points and releases the client and backup file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.writers {
		w.Flush()
	}
	if s.client != nil {
		s.client.Close()
	}

	var errs []error
	if s.backup != nil {
		errs = append(errs, s.backup.Close())
		errs = append(errs, s.backupFile.Close())
		s.backup = nil
	}
	return errors.Join(errs...)
}
