package auth

import "time"

// RefreshToken is a stored, hashed refresh token. Tokens rotate on use and
// share a FamilyID with the login that created them.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	AgentID   uint      `gorm:"index"`
	FamilyID  string    `gorm:"index"`
	Hash      string    `gorm:"uniqueIndex"`
	IsAdmin   bool
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Active reports whether the token is neither revoked nor expired at now.
func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
