package tracking

import "github.com/angelmondragon/storefront-demo/pkg/maps"

// Waypoint is a stop on the shipment route.
type Waypoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Label     string  `json:"label"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

func (w Waypoint) LatLng() maps.LatLng {
	return maps.LatLng{Lat: w.Lat, Lng: w.Lng}
}

// DefaultWaypoints is the fixed New York to Las Vegas route every order replays.
func DefaultWaypoints() []Waypoint {
	return []Waypoint{
		{
			Lat:       40.7128,
			Lng:       -74.0060,
			Label:     "New York Distribution Center",
			Status:    "Package received",
			Timestamp: "Feb 27, 2025 9:15 AM EST",
		},
		{
			Lat:       41.8781,
			Lng:       -87.6298,
			Label:     "Chicago Sorting Facility",
			Status:    "In transit",
			Timestamp: "Feb 28, 2025 3:45 PM CST",
		},
		{
			Lat:       36.1699,
			Lng:       -115.1398,
			Label:     "Las Vegas Delivery Center",
			Status:    "Out for delivery",
			Timestamp: "Mar 1, 2025 10:30 AM PST",
		},
	}
}
