package maps

import "context"

type MarkerKind string

const (
	MarkerKindWaypoint MarkerKind = "waypoint"
	MarkerKindPackage  MarkerKind = "package"
)

// Marker is a pin rendered on the map.
type Marker struct {
	ID       string     `json:"id"`
	Kind     MarkerKind `json:"kind"`
	Position LatLng     `json:"position"`
	Title    string     `json:"title,omitempty"`
	Label    string     `json:"label,omitempty"`
}

// Viewport is the map collaborator the shipment replay drives. Implementations must be safe
// for use from timer goroutines.
type Viewport interface {
	// Init prepares the surface. A failure is permanent for the caller.
	Init(ctx context.Context) error
	PlaceMarker(m Marker)
	MoveMarker(id string, to LatLng)
	DrawPolyline(path []LatLng)
	FitBounds(b Bounds, padding int)
	PanToBounds(b Bounds)
}
