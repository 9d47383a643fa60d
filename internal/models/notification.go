package models

import "time"

// Notification is the database row shape for the notifications table.
// NotificationID is the content fingerprint primary key; TransactionID
// carries a UNIQUE constraint so no two notifications claim the same
// transaction.
type Notification struct {
	NotificationID string
	UserID         string
	TransactionID  string
	Timestamp      time.Time
	Title          string
	Body           string
}
