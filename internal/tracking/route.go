package tracking

import (
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-demo/pkg/maps"
)

// Timing converts distance into animation time: each segment lasts BaseMS plus one
// millisecond per MetersPerMS meters.
type Timing struct {
	BaseMS      float64
	MetersPerMS float64
}

// DefaultTiming is 1s per segment plus 1ms per 5km.
var DefaultTiming = Timing{BaseMS: 1000, MetersPerMS: 5000}

// Route is an immutable ordered list of at least two waypoints.
type Route struct {
	waypoints []Waypoint
	timing    Timing

	durationOnce sync.Once
	segments     []float64
	totalMS      float64
}

func NewRoute(waypoints []Waypoint, timing Timing) (*Route, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least 2 waypoints, got %d", len(waypoints))
	}
	if timing.MetersPerMS <= 0 {
		return nil, fmt.Errorf("meters per ms must be positive")
	}
	if timing.BaseMS < 0 {
		return nil, fmt.Errorf("segment base ms must not be negative")
	}
	return &Route{
		waypoints: append([]Waypoint(nil), waypoints...),
		timing:    timing,
	}, nil
}

// DefaultRoute is the fixed three-stop route with default timing.
func DefaultRoute() *Route {
	route, err := NewRoute(DefaultWaypoints(), DefaultTiming)
	if err != nil {
		panic(err)
	}
	return route
}

func (r *Route) Waypoints() []Waypoint {
	return append([]Waypoint(nil), r.waypoints...)
}

func (r *Route) Len() int { return len(r.waypoints) }

func (r *Route) Segments() int { return len(r.waypoints) - 1 }

func (r *Route) At(i int) Waypoint { return r.waypoints[i] }

func (r *Route) Path() []maps.LatLng {
	out := make([]maps.LatLng, len(r.waypoints))
	for i, w := range r.waypoints {
		out[i] = w.LatLng()
	}
	return out
}

func (r *Route) Bounds() maps.Bounds {
	return maps.BoundsOf(r.Path()...)
}

// TotalDuration is the summed segment duration in milliseconds. Computed once.
func (r *Route) TotalDuration() float64 {
	r.computeDurations()
	return r.totalMS
}

// SegmentDurations returns the duration in milliseconds of each leg.
func (r *Route) SegmentDurations() []float64 {
	r.computeDurations()
	return append([]float64(nil), r.segments...)
}

func (r *Route) computeDurations() {
	r.durationOnce.Do(func() {
		r.segments = make([]float64, 0, r.Segments())
		for i := 0; i < r.Segments(); i++ {
			meters := DistanceMeters(r.waypoints[i].LatLng(), r.waypoints[i+1].LatLng())
			ms := r.timing.BaseMS + meters/r.timing.MetersPerMS
			r.segments = append(r.segments, ms)
			r.totalMS += ms
		}
	})
}
