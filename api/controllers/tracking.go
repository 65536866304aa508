package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-demo/api/responses"
	"github.com/angelmondragon/storefront-demo/api/validators"
	"github.com/angelmondragon/storefront-demo/internal/session"
	"github.com/angelmondragon/storefront-demo/internal/tracking"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
	"github.com/angelmondragon/storefront-demo/pkg/maps"
)

const (
	streamBuffer    = 64
	streamHeartbeat = 15 * time.Second
)

type trackingResponse struct {
	Replay             tracking.ReplayState `json:"replay"`
	Waypoints          []tracking.Waypoint  `json:"waypoints"`
	SegmentDurationsMs []float64            `json:"segment_durations_ms"`
	View               maps.View            `json:"view"`
}

func newTrackingResponse(replay *session.Replay, state tracking.ReplayState) trackingResponse {
	route := replay.Engine.Route()
	return trackingResponse{
		Replay:             state,
		Waypoints:          route.Waypoints(),
		SegmentDurationsMs: route.SegmentDurations(),
		View:               replay.Surface.Snapshot(),
	}
}

// replayFor resolves the session replay for the orderNumber path parameter. Order numbers are
// opaque; any value gets the same fixed route.
func replayFor(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Replay, bool) {
	sess, ok := requireSession(w, r, logg)
	if !ok {
		return nil, false
	}
	number, err := validators.PathString(r, "orderNumber", orderNumberMaxLen)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	replay, err := sess.Replay(r.Context(), number)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return replay, true
}

func TrackingFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replay, ok := replayFor(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newTrackingResponse(replay, replay.Engine.State()))
	}
}

// TrackingPlay restarts the replay from the first waypoint.
func TrackingPlay(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replay, ok := replayFor(w, r, logg)
		if !ok {
			return
		}
		state, err := replay.Engine.Play()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTrackingResponse(replay, state))
	}
}

func TrackingStop(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replay, ok := replayFor(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newTrackingResponse(replay, replay.Engine.Stop()))
	}
}

// TrackingJump frames a waypoint without moving the package marker.
func TrackingJump(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replay, ok := replayFor(w, r, logg)
		if !ok {
			return
		}
		index, err := validators.ParsePathInt(r, "index", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := replay.Engine.JumpTo(index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTrackingResponse(replay, state))
	}
}

// TrackingStream sends the current scene followed by every viewport command as server-sent
// events until the client disconnects.
func TrackingStream(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replay, ok := replayFor(w, r, logg)
		if !ok {
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		commands, unsubscribe := replay.Surface.Subscribe(streamBuffer)
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		ctx := r.Context()
		if err := writeEvent(w, "snapshot", newTrackingResponse(replay, replay.Engine.State())); err != nil {
			return
		}
		flusher.Flush()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case cmd, open := <-commands:
				if !open {
					return
				}
				if err := writeEvent(w, string(cmd.Kind), cmd); err != nil {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "event", cmd.Kind), "tracking stream write failed")
					}
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
