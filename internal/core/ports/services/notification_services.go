package services

import (
	"context"

	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	"github.com/vladisc/financial-server/internal/dto"
)

// NotificationIngestionSvc is the end-to-end reconciliation of a notification
// batch: fingerprinting, extraction, transaction persistence, notification
// persistence.
type NotificationIngestionSvc interface {
	// IngestNotifications processes one inbound batch for the user.
	// Extraction failures degrade to placeholder transactions and
	// identity-key collisions degrade to no-ops; an error is returned only
	// when the input is invalid or the batch resolved zero transaction
	// identifiers.
	IngestNotifications(ctx context.Context, userID string, req dto.IngestNotificationsRequest) (*dto.IngestResponse, error)
}

// NotificationReaderSvc defines read operations for notifications.
type NotificationReaderSvc interface {
	// ListNotifications retrieves the user's notifications inside the
	// window, newest first.
	ListNotifications(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Notification, error)
}

// NotificationSvcFacade combines all notification-related service interfaces.
type NotificationSvcFacade interface {
	NotificationIngestionSvc
	NotificationReaderSvc
}
