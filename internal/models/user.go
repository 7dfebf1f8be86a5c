package models

import "time"

// User is an authenticated identity. Most users arrive through SSO and
// carry only an email + subject; the seeded admin keeps a password hash
// for first-boot and test logins.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	Company      string   `gorm:"index"`
	Role         UserRole `gorm:"default:'member'"`
	PasswordHash string   `json:"-"`
	SSOSubject   string   `gorm:"column:sso_subject;index"`
	LastLoginAt  *time.Time
}
