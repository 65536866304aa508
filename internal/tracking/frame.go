package tracking

import (
	"math"

	"github.com/angelmondragon/storefront-demo/pkg/maps"
)

// Frame is the replay position for one progress value.
type Frame struct {
	Progress float64
	Segment  int
	Fraction float64
	Position maps.LatLng
	Finished bool
	// Pan frames the package and the end of its current leg. Zero when Finished.
	Pan maps.Bounds
}

// FrameAt computes the package position at progress in [0,1]. Legs share progress evenly
// regardless of their length; progress >= 1 snaps to the last waypoint.
func FrameAt(route *Route, progress float64) Frame {
	if math.IsNaN(progress) || progress < 0 {
		progress = 0
	}
	last := route.Len() - 1
	if progress >= 1 {
		return Frame{
			Progress: 1,
			Segment:  last,
			Fraction: 0,
			Position: route.At(last).LatLng(),
			Finished: true,
		}
	}

	n := route.Segments()
	scaled := progress * float64(n)
	segment := int(math.Floor(scaled))
	if segment > n-1 {
		segment = n - 1
	}
	fraction := math.Mod(scaled, 1)

	start := route.At(segment).LatLng()
	end := route.At(segment + 1).LatLng()
	position := Interpolate(start, end, fraction)
	return Frame{
		Progress: progress,
		Segment:  segment,
		Fraction: fraction,
		Position: position,
		Pan:      maps.BoundsOf(position, end),
	}
}

// ProgressAt converts elapsed playback time into progress for route.
func ProgressAt(route *Route, elapsedMS float64) float64 {
	total := route.TotalDuration()
	if total <= 0 {
		return 1
	}
	if elapsedMS <= 0 {
		return 0
	}
	return math.Min(elapsedMS/total, 1)
}
