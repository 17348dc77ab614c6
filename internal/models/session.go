package models

import "time"

// Session stores user login sessions (for logout, expiry, audit).
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID, also the JWT id
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null;default:false"`
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
