package models

import "time"

// User captures application-facing fields for an authenticated identity.
// Roles is the single canonical role list; legacy shapes are folded into it
// by the identity package before a User is built.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether name is one of the user's roles.
func (u User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role == name {
			return true
		}
	}
	return false
}
