package session

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/internal/tracking"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
	"github.com/google/uuid"
)

// User is the simulated signed-in shopper.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Settings holds the notification toggles shown on the settings page.
type Settings struct {
	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
}

func DefaultSettings() Settings {
	return Settings{EmailNotifications: true}
}

// Replay pairs an engine with the surface it draws on.
type Replay struct {
	Engine  *tracking.Engine
	Surface *maps.Surface
}

// Session is one shopper's state. Cart, Purchased and Checkout guard themselves; the remaining
// fields are guarded by mu.
type Session struct {
	ID        uuid.UUID
	Cart      *cart.Cart
	Purchased *cart.PurchasedSet
	Checkout  *checkout.Flow

	mu          sync.Mutex
	createdAt   time.Time
	lastSeen    time.Time
	user        *User
	settings    Settings
	replays     map[string]*Replay
	replayOrder []string // least recently used first
	maxReplays  int
	closed      bool
	newReplay   func(ctx context.Context, orderNumber string) (*Replay, error)
}

func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Session) SignIn(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) UpdateSettings(settings Settings) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.settings
}

// Replay returns the replay for orderNumber, attaching a new one on first use. A replay whose
// map failed to initialise is still returned so callers can report its failed state. Past the
// per-session cap the least recently used replay is closed and forgotten.
func (s *Session) Replay(ctx context.Context, orderNumber string) (*Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionClosed
	}
	if r, ok := s.replays[orderNumber]; ok {
		s.markUsedLocked(orderNumber)
		return r, nil
	}
	r, err := s.newReplay(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	for s.maxReplays > 0 && len(s.replayOrder) >= s.maxReplays {
		oldest := s.replayOrder[0]
		s.replayOrder = s.replayOrder[1:]
		if evicted, ok := s.replays[oldest]; ok {
			evicted.Engine.Close()
			delete(s.replays, oldest)
		}
	}
	s.replays[orderNumber] = r
	s.replayOrder = append(s.replayOrder, orderNumber)
	return r, nil
}

func (s *Session) markUsedLocked(orderNumber string) {
	for i, number := range s.replayOrder {
		if number == orderNumber {
			s.replayOrder = append(append(s.replayOrder[:i:i], s.replayOrder[i+1:]...), orderNumber)
			return
		}
	}
}

// ReplayCount reports how many replays the session holds.
func (s *Session) ReplayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replays)
}

// close tears down timers and frame chains. Safe to call more than once.
func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	replays := s.replays
	s.replays = map[string]*Replay{}
	s.replayOrder = nil
	s.mu.Unlock()

	for _, r := range replays {
		r.Engine.Close()
	}
	s.Checkout.Shutdown()
}
