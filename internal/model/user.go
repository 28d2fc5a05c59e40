package model

import "time"

// UserID uniquely identifies a registered user
type UserID int64

// User represents a registered account.
// The Password column holds a bcrypt hash, never the plaintext.
type User struct {
	ID           UserID `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:100;not null"`
	Email        string `gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string `gorm:"column:password;size:200;not null"`
	CreatedAt    time.Time
}
