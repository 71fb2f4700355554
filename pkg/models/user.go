package models

import (
	"time"
)

// User is a credential account that can sign in and obtain tokens.
//
// The account's ID is the JWT subject issued at sign-in. Warranty
// ownership is NOT keyed on this ID directly: the authenticated subject
// is resolved through a UserMapping first, so the warranty store never
// depends on the token issuer's identifier format.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.PasswordHash == "" {
		return ErrPasswordHashRequired
	}
	return nil
}
