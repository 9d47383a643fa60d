package dto

import (
	"time"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// IngestNotificationItem is one raw push notification submitted for ingestion.
type IngestNotificationItem struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Body      string    `json:"body" binding:"required"`
}

// IngestNotificationsRequest is the inbound batch. The wire format is a bare
// JSON array of notification objects.
type IngestNotificationsRequest []IngestNotificationItem

// IngestRecordError describes a per-record failure inside an otherwise
// successful batch. Index is positional with the request.
type IngestRecordError struct {
	Index          int    `json:"index"`
	NotificationID string `json:"notificationID,omitempty"`
	Error          string `json:"error"`
}

// IngestResponse is the outcome of one ingestion batch: the transactions the
// batch resolved to, the notifications actually stored, and any per-record
// errors that were absorbed without failing the batch.
type IngestResponse struct {
	Transactions  []TransactionResponse  `json:"transactions"`
	Notifications []NotificationResponse `json:"notifications_stored"`
	Errors        []IngestRecordError    `json:"errors"`
}

// NotificationResponse is the outward shape of a stored notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationID"`
	TransactionID  string    `json:"transactionID"`
	Timestamp      time.Time `json:"timestamp"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
}

// ToNotificationResponse converts a domain.Notification to its response DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		TransactionID:  n.TransactionID,
		Timestamp:      n.Timestamp,
		Title:          n.Title,
		Body:           n.Body,
	}
}

// ToNotificationResponses converts a slice of domain notifications.
func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i := range ns {
		out[i] = ToNotificationResponse(&ns[i])
	}
	return out
}
