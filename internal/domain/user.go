package domain

import "time"

// AuthProvider records how an account was created.
type AuthProvider string

const (
	AuthProviderLocal AuthProvider = "local"
)

// User is the account a token subject refers to.
type User struct {
	ID           int64
	Email        string
	Name         *string
	Avatar       *string
	Provider     AuthProvider
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string
	Avatar *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Avatar == nil
}
