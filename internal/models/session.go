package models

import (
	"time"
)

// Session is a server-side login session keyed by an opaque token
// carried in a cookie.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    int64     `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
