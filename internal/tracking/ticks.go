package tracking

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameHandle cancels a requested frame. Cancel after the frame ran is a no-op.
type FrameHandle interface {
	Cancel()
}

// TickSource delivers one callback per requested frame.
type TickSource interface {
	RequestFrame(cb func(now time.Time)) FrameHandle
}

// FrameClock schedules frames on real timers.
type FrameClock struct {
	interval time.Duration
}

func NewFrameClock(interval time.Duration) *FrameClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameClock{interval: interval}
}

func (c *FrameClock) RequestFrame(cb func(now time.Time)) FrameHandle {
	return timerHandle{timer: time.AfterFunc(c.interval, func() { cb(time.Now()) })}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() {
	h.timer.Stop()
}

// ManualFrames is a TickSource driven explicitly through Step. Useful for deterministic playback.
type ManualFrames struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualFrame
}

type manualFrame struct {
	cb        func(now time.Time)
	cancelled bool
}

func NewManualFrames(start time.Time) *ManualFrames {
	return &ManualFrames{now: start}
}

func (m *ManualFrames) RequestFrame(cb func(now time.Time)) FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	frame := &manualFrame{cb: cb}
	m.pending = append(m.pending, frame)
	return manualHandle{owner: m, frame: frame}
}

type manualHandle struct {
	owner *ManualFrames
	frame *manualFrame
}

func (h manualHandle) Cancel() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.frame.cancelled = true
}

// Pending counts frames requested and not yet run or cancelled.
func (m *ManualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, frame := range m.pending {
		if !frame.cancelled {
			count++
		}
	}
	return count
}

func (m *ManualFrames) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Step moves the clock forward by d and runs the frames pending at that moment. Frames requested
// by those callbacks wait for the next Step. It returns how many callbacks ran.
func (m *ManualFrames) Step(d time.Duration) int {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now
	due := m.pending
	m.pending = nil
	m.mu.Unlock()

	ran := 0
	for _, frame := range due {
		m.mu.Lock()
		cancelled := frame.cancelled
		frame.cancelled = true
		m.mu.Unlock()
		if cancelled {
			continue
		}
		frame.cb(now)
		ran++
	}
	return ran
}
