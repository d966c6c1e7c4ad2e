// Package model - user accounts
package model

import "time"

// User represents a user in the system
type User struct {
	Key          string    `json:"_key,omitempty"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new user with default values
func NewUser(username, email string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
