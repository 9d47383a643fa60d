package domain

import "time"

// Notification represents one raw bank push-notification event.
//
// NotificationID is a content fingerprint of (timestamp, title, body): the
// same notification text always yields the same identity, which is what makes
// re-ingestion idempotent. TransactionID links the notification to the single
// transaction derived from it (unique across notifications).
type Notification struct {
	NotificationID string    `json:"notificationID"`
	UserID         string    `json:"userID"`
	TransactionID  string    `json:"transactionID"`
	Timestamp      time.Time `json:"timestamp"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
}
