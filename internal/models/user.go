package models

import "time"

// User is an identity record. Created on first successful sign-up,
// profile fields refreshed on subsequent sign-ins. Never deleted here.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"` // stored lower-cased
	Password  []byte    `gorm:"column:password_hash;not null" json:"-"`
	Name      string    `gorm:"size:255" json:"name"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
