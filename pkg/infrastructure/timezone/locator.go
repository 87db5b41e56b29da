package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

// finder is the subset of tzf.F used here.
type finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// Locator resolves time zones offline from the bundled tzf boundary data.
type Locator struct {
	finder finder

	mu    sync.Mutex
	zones map[string]*time.Location
}

// NewLocator loads the default boundary data set.
func NewLocator() (*Locator, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("loading timezone data: %w", err)
	}
	return &Locator{finder: f, zones: make(map[string]*time.Location)}, nil
}

// Zone returns the time zone in effect at a coordinate. Points at sea resolve to UTC.
func (l *Locator) Zone(lat, long float64) (*time.Location, error) {
	name := l.finder.GetTimezoneName(long, lat)
	if name == "" {
		return time.UTC, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if loc, ok := l.zones[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading zone %s: %w", name, err)
	}
	l.zones[name] = loc
	return loc, nil
}
