package models

import "time"

// User is the database row shape for the users table.
type User struct {
	UserID       string
	Username     string
	FirstName    string
	LastName     string
	Company      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
