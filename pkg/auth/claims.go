package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	SessionID     uuid.UUID
	Authenticated bool
	DisplayName   string
	JTI           string
}

// SessionTokenClaims represents the typed JWT handed to shoppers.
type SessionTokenClaims struct {
	SessionID     uuid.UUID `json:"session_id"`
	Authenticated bool      `json:"authenticated"`
	DisplayName   string    `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}
