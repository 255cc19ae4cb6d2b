package domain

import "time"

// User models an account that owns clients and transactions.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns a copy of u without credential material.
func (u User) Public() *User {
	u.PasswordHash = ""
	return &u
}
