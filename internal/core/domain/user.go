package domain

import "time"

// User is the owner of notifications and transactions. The profile fields
// FirstName/LastName/Company double as extraction hints.
type User struct {
	UserID       string    `json:"userID"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Company      string    `json:"company"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
