package models

import "time"

// Session represents a server-side login session. The token is the opaque
// value stored in the client's cookie; a session is valid iff it exists and
// ExpireAt is in the future.
type Session struct {
	Base
	Token    string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID   string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpireAt time.Time `gorm:"not null" json:"expire_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpireAt.After(now)
}
