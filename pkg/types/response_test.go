package types

import (
	"encoding/json"
	"testing"
)

func TestErrorEnvelopeOmitsEmptyDetails(t *testing.T) {
	for _, details := range []any{nil, map[string]string{}, map[string]any{}} {
		payload, err := json.Marshal(NewErrorEnvelope("NOT_FOUND", "order not found", false, details))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(payload) != `{"error":{"code":"NOT_FOUND","message":"order not found"}}` {
			t.Fatalf("unexpected payload %s", payload)
		}
	}
}

func TestErrorEnvelopeCarriesRetryableAndDetails(t *testing.T) {
	env := NewErrorEnvelope("RATE_LIMIT_EXCEEDED", "too many attempts", true, map[string]string{"email": "throttled"})
	payload, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"code":"RATE_LIMIT_EXCEEDED","message":"too many attempts","retryable":true,"details":{"email":"throttled"}}}`
	if string(payload) != want {
		t.Fatalf("expected %s, got %s", want, payload)
	}
}
