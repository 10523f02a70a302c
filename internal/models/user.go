package models

import "time"

// User represents a registered account. The username and email unique
// indexes are the authoritative defense against duplicate signups.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"createdAt"`
}
