package models

import "time"

// User is an account row. The table name is shared with the mobile client.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // bcrypt hash
	PhoneNumber string     `gorm:"column:phone_number;size:32" json:"phone_number"`
	Language    string     `gorm:"size:8;not null;default:en" json:"language"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `gorm:"size:64" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "custom_users"
}
