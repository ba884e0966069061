// Package clock renders the multi-timezone time panel.
package clock

import (
	"context"
	"fmt"
	"time"

	// Bundled zone database so the panel works on hosts without one.
	_ "time/tzdata"
)

// Layout is the long US English date and time form.
const Layout = "January 2, 2006 at 3:04:05 PM MST"

// DefaultInterval is how often the panel refreshes.
const DefaultInterval = time.Second

// DefaultZones are shown top to bottom after the heading.
var DefaultZones = []string{"UTC", "America/Denver", "America/New_York"}

// Header is the first line of every panel.
const Header = "Current Time:"

// Clock formats the current time in a fixed list of zones.
type Clock struct {
	zones []*time.Location
	now   func() time.Time
}

// New loads the named zones. An unknown zone name is an error.
func New(zones []string) (*Clock, error) {
	if len(zones) == 0 {
		zones = DefaultZones
	}
	locs := make([]*time.Location, 0, len(zones))
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("loading zone %q: %w", name, err)
		}
		locs = append(locs, loc)
	}
	return &Clock{zones: locs, now: time.Now}, nil
}

// Format renders t in loc using Layout.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// Panel returns the heading followed by t in each zone.
func (c *Clock) Panel(t time.Time) []string {
	lines := make([]string, 0, len(c.zones)+1)
	lines = append(lines, Header)
	for _, loc := range c.zones {
		lines = append(lines, Format(t, loc))
	}
	return lines
}

// Now is Panel for the current time.
func (c *Clock) Now() []string {
	return c.Panel(c.now())
}

// Run calls update with a fresh panel immediately and then every interval
// until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration, update func([]string)) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	update(c.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update(c.Now())
		}
	}
}
