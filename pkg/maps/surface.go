package maps

import (
	"context"
	"sync"
)

type CommandKind string

const (
	CommandPlaceMarker CommandKind = "place_marker"
	CommandMoveMarker  CommandKind = "move_marker"
	CommandPolyline    CommandKind = "polyline"
	CommandFitBounds   CommandKind = "fit_bounds"
	CommandPanToBounds CommandKind = "pan_to_bounds"
)

// Command is one drawing instruction applied to a Surface.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Marker  *Marker     `json:"marker,omitempty"`
	Path    []LatLng    `json:"path,omitempty"`
	Bounds  *Bounds     `json:"bounds,omitempty"`
	Padding int         `json:"padding,omitempty"`
}

// View is a point-in-time copy of what a Surface shows.
type View struct {
	Markers  []Marker `json:"markers"`
	Polyline []LatLng `json:"polyline"`
	Camera   Bounds   `json:"camera"`
}

// Surface is an in-memory Viewport that records the resulting scene and fans commands out
// to subscribers. Slow subscribers drop commands rather than block the caller.
type Surface struct {
	mu       sync.Mutex
	initErr  error
	ready    bool
	markers  map[string]Marker
	order    []string
	polyline []LatLng
	camera   Bounds
	subs     map[int]chan Command
	nextSub  int
}

// SurfaceOption configures optional surface behavior.
type SurfaceOption func(*Surface)

// WithInitError makes Init fail with err.
func WithInitError(err error) SurfaceOption {
	return func(s *Surface) {
		s.initErr = err
	}
}

func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{
		markers: make(map[string]Marker),
		subs:    make(map[int]chan Command),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Surface) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return s.initErr
	}
	s.ready = true
	return nil
}

func (s *Surface) PlaceMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.markers[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	s.markers[m.ID] = m
	s.publishLocked(Command{Kind: CommandPlaceMarker, Marker: &m})
}

func (s *Surface) MoveMarker(id string, to LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markers[id]
	if !ok {
		return
	}
	m.Position = to
	s.markers[id] = m
	s.publishLocked(Command{Kind: CommandMoveMarker, Marker: &m})
}

func (s *Surface) DrawPolyline(path []LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polyline = append([]LatLng(nil), path...)
	s.publishLocked(Command{Kind: CommandPolyline, Path: append([]LatLng(nil), path...)})
}

func (s *Surface) FitBounds(b Bounds, padding int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = b
	s.publishLocked(Command{Kind: CommandFitBounds, Bounds: &b, Padding: padding})
}

func (s *Surface) PanToBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = b
	s.publishLocked(Command{Kind: CommandPanToBounds, Bounds: &b})
}

// Ready reports whether Init succeeded.
func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Marker returns the marker with id, if placed.
func (s *Surface) Marker(id string) (Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markers[id]
	return m, ok
}

func (s *Surface) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View{
		Markers:  make([]Marker, 0, len(s.order)),
		Polyline: append([]LatLng(nil), s.polyline...),
		Camera:   s.camera,
	}
	for _, id := range s.order {
		view.Markers = append(view.Markers, s.markers[id])
	}
	return view
}

// Subscribe streams future commands. The returned func unsubscribes and closes the channel.
func (s *Surface) Subscribe(buffer int) (<-chan Command, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Command, buffer)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Surface) publishLocked(cmd Command) {
	for _, ch := range s.subs {
		select {
		case ch <- cmd:
		default:
		}
	}
}
