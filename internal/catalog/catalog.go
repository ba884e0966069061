// Package catalog holds the labeled city markers in an in-memory SQLite
// database. Nothing is ever written to disk.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrUnknownCity is returned by MustFind when no city has the label.
var ErrUnknownCity = errors.New("unknown city")

// City is the catalog row.
type City struct {
	ID        uint    `gorm:"primarykey"`
	Label     string  `gorm:"uniqueIndex:idx_city_point;not null"`
	Latitude  float64 `gorm:"uniqueIndex:idx_city_point"`
	Longitude float64 `gorm:"uniqueIndex:idx_city_point"`
}

// GeoPoint converts the row to the core type.
func (c City) GeoPoint() core.GeoPoint {
	return core.GeoPoint{Latitude: c.Latitude, Longitude: c.Longitude, Label: c.Label}
}

// Catalog is a queryable set of cities.
type Catalog struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open creates a private in-memory database and migrates the schema.
// Each call gets its own database, even within one process.
func Open(ctx context.Context, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}

	dsn := fmt.Sprintf("file:catalog-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			closeDB(db)
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.WithContext(ctx).AutoMigrate(&City{}); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	log.Debug("City catalog opened", "dsn", dsn)
	return &Catalog{db: db, logger: log}, nil
}

// Close releases the database. The in-memory data is gone afterwards.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Load inserts points, skipping any that repeat an existing label and
// coordinate pair. It returns how many rows were added.
func (c *Catalog) Load(ctx context.Context, points []core.GeoPoint) (int, error) {
	added := 0
	for _, p := range points {
		if p.Label == "" {
			return added, fmt.Errorf("city at (%f, %f) has no label", p.Latitude, p.Longitude)
		}
		row := City{Label: p.Label, Latitude: p.Latitude, Longitude: p.Longitude}
		res := c.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return added, fmt.Errorf("inserting %s: %w", p.Label, res.Error)
		}
		if res.RowsAffected == 0 {
			c.logger.Debug("Duplicate city skipped", "label", p.Label)
			continue
		}
		added++
	}
	return added, nil
}

// All returns every city in insertion order.
func (c *Catalog) All(ctx context.Context) ([]core.GeoPoint, error) {
	var rows []City
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	return toPoints(rows), nil
}

// Count returns the number of cities.
func (c *Catalog) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&City{}).Count(&n).Error
	return n, err
}

// Find looks a city up by label, ignoring case. The first inserted match wins.
func (c *Catalog) Find(ctx context.Context, label string) (core.GeoPoint, bool, error) {
	var row City
	err := c.db.WithContext(ctx).
		Where("LOWER(label) = LOWER(?)", label).
		Order("id ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.GeoPoint{}, false, nil
	}
	if err != nil {
		return core.GeoPoint{}, false, fmt.Errorf("finding %s: %w", label, err)
	}
	return row.GeoPoint(), true, nil
}

// MustFind is Find with a missing city reported as ErrUnknownCity.
func (c *Catalog) MustFind(ctx context.Context, label string) (core.GeoPoint, error) {
	p, ok, err := c.Find(ctx, label)
	if err != nil {
		return core.GeoPoint{}, err
	}
	if !ok {
		return core.GeoPoint{}, fmt.Errorf("%w: %s", ErrUnknownCity, label)
	}
	return p, nil
}

// Within returns cities inside a latitude/longitude box (inclusive).
func (c *Catalog) Within(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]core.GeoPoint, error) {
	var rows []City
	err := c.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLon, maxLon).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying box: %w", err)
	}
	return toPoints(rows), nil
}

func toPoints(rows []City) []core.GeoPoint {
	points := make([]core.GeoPoint, len(rows))
	for i, r := range rows {
		points[i] = r.GeoPoint()
	}
	return points
}
