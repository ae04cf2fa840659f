package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a signed session token. Sessions are
// stateless: there is no revocation list, expiry is the only termination.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ChatTurn is one prior exchange in an assistant conversation.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
