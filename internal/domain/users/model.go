package users

import "time"

// Role is a closed enum; anything else in the column is a bug.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Email        string  `gorm:"size:320;not null;uniqueIndex:idx_users_email"`
	PasswordHash string  `gorm:"size:255"` // empty for Google-only accounts
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         Role    `gorm:"type:varchar(16);not null;default:'user'"`

	CreatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
