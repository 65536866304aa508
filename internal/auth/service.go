package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/session"
	pkgauth "github.com/angelmondragon/storefront-demo/pkg/auth"
	"github.com/angelmondragon/storefront-demo/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/logger"
)

// DefaultDisplayName is the name every simulated login signs in as.
const DefaultDisplayName = "John Doe"

// Service simulates sign-in against a session. Credentials are never checked.
type Service interface {
	Login(ctx context.Context, sess *session.Session, req LoginRequest) (*Result, error)
	Register(ctx context.Context, sess *session.Session, req RegisterRequest) (*Result, error)
	Logout(ctx context.Context, sess *session.Session) (*Result, error)
	// Issue mints a token reflecting the session's current sign-in state.
	Issue(sess *session.Session) (*Result, error)
}

// Waiter blocks for the simulated round trip.
type Waiter func(ctx context.Context, d time.Duration) error

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	JWTConfig config.JWTConfig
	Delay     time.Duration
	Wait      Waiter
	Clock     func() time.Time
	Logger    *logger.Logger
}

type service struct {
	jwtCfg config.JWTConfig
	delay  time.Duration
	wait   Waiter
	clock  func() time.Time
	logg   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if params.Wait == nil {
		params.Wait = sleepCtx
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		jwtCfg: params.JWTConfig,
		delay:  params.Delay,
		wait:   params.Wait,
		clock:  params.Clock,
		logg:   params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, sess *session.Session, req LoginRequest) (*Result, error) {
	email := normalizeEmail(req.Email)
	fields := map[string]string{}
	checkEmail(fields, email)
	if strings.TrimSpace(req.Password) == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("validation failed", fields)
	}
	return s.signIn(ctx, sess, session.User{Name: DefaultDisplayName, Email: email})
}

func (s *service) Register(ctx context.Context, sess *session.Session, req RegisterRequest) (*Result, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "is required"
	}
	checkEmail(fields, email)
	if strings.TrimSpace(req.Password) == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("validation failed", fields)
	}
	return s.signIn(ctx, sess, session.User{Name: name, Email: email})
}

func (s *service) Logout(ctx context.Context, sess *session.Session) (*Result, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	sess.SignOut()
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sess.ID.String()), "shopper signed out")
	}
	return s.Issue(sess)
}

func (s *service) Issue(sess *session.Session) (*Result, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	payload := pkgauth.SessionTokenPayload{SessionID: sess.ID}
	result := &Result{SessionID: sess.ID}
	if user, ok := sess.User(); ok {
		payload.Authenticated = true
		payload.DisplayName = user.Name
		result.Authenticated = true
		result.User = &user
	}
	token, err := pkgauth.MintSessionToken(s.jwtCfg, s.clock(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint session token")
	}
	result.Token = token
	return result, nil
}

func (s *service) signIn(ctx context.Context, sess *session.Session, user session.User) (*Result, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign in interrupted")
	}
	sess.SignIn(user)
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sess.ID.String()), "shopper signed in")
	}
	return s.Issue(sess)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(fields map[string]string, email string) {
	if email == "" {
		fields["email"] = "is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "must be a valid email"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
