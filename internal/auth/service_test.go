package auth

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/checkout"
	"github.com/angelmondragon/storefront-demo/internal/orders"
	"github.com/angelmondragon/storefront-demo/internal/session"
	pkgauth "github.com/angelmondragon/storefront-demo/pkg/auth"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/shopspring/decimal"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "storefront-demo",
	ExpirationMinutes: 30,
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, orders.Order) error { return nil }

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	registry, err := session.NewRegistry(session.Params{
		TaxRate:  decimal.RequireFromString("0.08"),
		Checkout: checkout.Options{},
		Orders:   nopRecorder{},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	t.Cleanup(registry.Close)
	sess, err := registry.Create(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

type recordingWait struct {
	calls []time.Duration
}

func (w *recordingWait) wait(_ context.Context, d time.Duration) error {
	w.calls = append(w.calls, d)
	return nil
}

func buildTestService(t *testing.T) (Service, *recordingWait) {
	t.Helper()
	waiter := &recordingWait{}
	svc, err := NewService(ServiceParams{
		JWTConfig: testJWT,
		Delay:     1500 * time.Millisecond,
		Wait:      waiter.wait,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, waiter
}

func TestLoginAlwaysSignsInAsDefaultUser(t *testing.T) {
	svc, waiter := buildTestService(t)
	sess := newTestSession(t)

	res, err := svc.Login(context.Background(), sess, LoginRequest{Email: " Shopper@Example.com ", Password: "anything"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(waiter.calls) != 1 || waiter.calls[0] != 1500*time.Millisecond {
		t.Fatalf("expected one 1500ms wait, got %v", waiter.calls)
	}
	if !res.Authenticated || res.User == nil || res.User.Name != DefaultDisplayName {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.User.Email != "shopper@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if !sess.Authenticated() {
		t.Fatalf("session should be authenticated")
	}

	claims, err := pkgauth.ParseSessionToken(testJWT, res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SessionID != sess.ID || !claims.Authenticated || claims.DisplayName != DefaultDisplayName {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRegisterUsesProvidedName(t *testing.T) {
	svc, _ := buildTestService(t)
	sess := newTestSession(t)

	res, err := svc.Register(context.Background(), sess, RegisterRequest{Name: "Ada Lovelace", Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user, ok := sess.User()
	if !ok || user.Name != "Ada Lovelace" {
		t.Fatalf("expected session user Ada Lovelace, got %+v", user)
	}
	if res.User.Name != "Ada Lovelace" {
		t.Fatalf("unexpected result user %+v", res.User)
	}
}

func TestLoginValidation(t *testing.T) {
	svc, waiter := buildTestService(t)
	sess := newTestSession(t)

	_, err := svc.Login(context.Background(), sess, LoginRequest{Email: "not-an-email"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	if details["email"] != "must be a valid email" || details["password"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
	if len(waiter.calls) != 0 {
		t.Fatalf("invalid forms should not wait")
	}
	if sess.Authenticated() {
		t.Fatalf("session should stay anonymous")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := buildTestService(t)
	sess := newTestSession(t)

	_, err := svc.Register(context.Background(), sess, RegisterRequest{Email: "ada@example.com", Password: "pw"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	if details["name"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestLogoutIssuesAnonymousToken(t *testing.T) {
	svc, _ := buildTestService(t)
	sess := newTestSession(t)
	if _, err := svc.Login(context.Background(), sess, LoginRequest{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	res, err := svc.Logout(context.Background(), sess)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if res.Authenticated || res.User != nil || sess.Authenticated() {
		t.Fatalf("expected anonymous session after logout, got %+v", res)
	}
	claims, err := pkgauth.ParseSessionToken(testJWT, res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Authenticated {
		t.Fatalf("logout token should not be authenticated")
	}
}

func TestSignInHonoursCancellation(t *testing.T) {
	svc, err := NewService(ServiceParams{JWTConfig: testJWT, Delay: time.Hour})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	sess := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Login(ctx, sess, LoginRequest{Email: "a@example.com", Password: "pw"}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if sess.Authenticated() {
		t.Fatalf("cancelled login must not sign in")
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}
