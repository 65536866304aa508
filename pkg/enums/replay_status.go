package enums

import "fmt"

// ReplayStatus tracks the shipment replay state machine.
type ReplayStatus string

const (
	ReplayStatusIdle     ReplayStatus = "idle"
	ReplayStatusPlaying  ReplayStatus = "playing"
	ReplayStatusFinished ReplayStatus = "finished"
	// ReplayStatusFailed is terminal; the map surface could not be initialised.
	ReplayStatusFailed ReplayStatus = "failed"
)

var validReplayStatuses = []ReplayStatus{
	ReplayStatusIdle,
	ReplayStatusPlaying,
	ReplayStatusFinished,
	ReplayStatusFailed,
}

// String implements fmt.Stringer.
func (r ReplayStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReplayStatus.
func (r ReplayStatus) IsValid() bool {
	for _, candidate := range validReplayStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReplayStatus converts raw input into a ReplayStatus.
func ParseReplayStatus(value string) (ReplayStatus, error) {
	for _, candidate := range validReplayStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid replay status %q", value)
}
