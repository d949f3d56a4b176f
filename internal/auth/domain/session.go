package domain

import (
	"errors"
	"time"
)

// Session holds the OAuth tokens for one authenticated user. It is created at
// the login callback, refreshed when the provider rotates the access token,
// and discarded at logout or expiry.
type Session struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserEmail    string    `json:"user_email" gorm:"index"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session itself (not the provider token) has
// outlived its TTL.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidState    = errors.New("invalid or expired oauth state")
	ErrExchangeFailed  = errors.New("authorization code exchange failed")
)
