package tracking

import (
	"math"

	"github.com/angelmondragon/storefront-demo/pkg/maps"
)

// EarthRadiusMeters matches the radius used by common web map geometry libraries.
const EarthRadiusMeters = 6378137.0

// DistanceMeters is the great-circle distance between a and b.
func DistanceMeters(a, b maps.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Interpolate is the straight lat/lng blend from a (f=0) to b (f=1).
func Interpolate(a, b maps.LatLng, f float64) maps.LatLng {
	return maps.LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lng: a.Lng + (b.Lng-a.Lng)*f,
	}
}
