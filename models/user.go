// models/user.go
package models

import "time"

// User is a reporter or an administrator. Password is stored as given
// (plaintext) and is never serialised to JSON.
type User struct {
	ID        int       `gorm:"primaryKey"                       json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex;not null"    json:"username"`
	Password  string    `gorm:"size:255;not null"                json:"-"`
	IsAdmin   bool      `gorm:"column:is_admin;default:false"    json:"isAdmin"`
	CreatedAt time.Time `gorm:"column:created_at"                json:"createdAt"`
}

// UserInput is the registration payload.
type UserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  *bool  `json:"isAdmin,omitempty"`
}

// PasswordMatches compares a candidate against the stored plaintext password.
func (u *User) PasswordMatches(candidate string) bool {
	return u != nil && u.Password == candidate
}
