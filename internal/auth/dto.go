package auth

import (
	"github.com/angelmondragon/storefront-demo/internal/session"
	"github.com/google/uuid"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest captures the sign-up form.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is returned by every auth operation. Token replaces the caller's session token.
type Result struct {
	Token         string        `json:"token"`
	SessionID     uuid.UUID     `json:"session_id"`
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
}
