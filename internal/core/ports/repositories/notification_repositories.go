package repositories

import (
	"context"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
// Notifications are append-only: created by ingestion after their transaction
// exists, never updated, and removed only by user-deletion cascades.
type NotificationRepository interface {
	// SaveNotifications inserts the given notifications, each linked to its
	// transaction identifier. Each insert is its own atomic unit and is
	// idempotent on the content fingerprint primary key; a violation of the
	// one-notification-per-transaction constraint surfaces as that record's
	// outcome error. Outcomes are positional with the input.
	SaveNotifications(ctx context.Context, notifications []domain.Notification) ([]SaveOutcome, error)

	// FindNotifications lists a user's notifications inside the window,
	// newest first.
	FindNotifications(ctx context.Context, userID string, window TimeWindow) ([]domain.Notification, error)

	// FindNotificationsByTransactionIDs returns the notifications that
	// produced the given transactions, newest first.
	FindNotificationsByTransactionIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Notification, error)
}

// NotificationRepositoryWithTx couples the repository with transaction management.
type NotificationRepositoryWithTx interface {
	NotificationRepository
	TransactionManager
}
