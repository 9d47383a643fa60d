package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	"github.com/vladisc/financial-server/internal/models"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(db *pgxpool.Pool) portsrepo.NotificationRepositoryWithTx {
	return &PgxNotificationRepository{BaseRepository{Pool: db}}
}

// Ensure PgxNotificationRepository implements the port
var _ portsrepo.NotificationRepositoryWithTx = (*PgxNotificationRepository)(nil)

// Helper to convert domain.Notification to models.Notification
func toModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		UserID:         d.UserID,
		TransactionID:  d.TransactionID,
		Timestamp:      d.Timestamp,
		Title:          d.Title,
		Body:           d.Body,
	}
}

// Helper to convert models.Notification to domain.Notification
func toDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		TransactionID:  m.TransactionID,
		Timestamp:      m.Timestamp,
		Title:          m.Title,
		Body:           m.Body,
	}
}

const insertNotificationQuery = `
	INSERT INTO notifications (notification_id, user_id, transaction_id, timestamp, title, body)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (notification_id) DO NOTHING;
`

func (r *PgxNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) ([]portsrepo.SaveOutcome, error) {
	outcomes := make([]portsrepo.SaveOutcome, len(notifications))
	for i, n := range notifications {
		m := toModelNotification(n)
		cmdTag, err := r.Pool.Exec(ctx, insertNotificationQuery,
			m.NotificationID,
			m.UserID,
			m.TransactionID,
			m.Timestamp,
			m.Title,
			m.Body,
		)
		if err != nil {
			// A conflict on the fingerprint PK is absorbed by ON CONFLICT;
			// reaching here with a unique violation means another
			// notification already claims this transaction.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				outcomes[i] = portsrepo.SaveOutcome{Err: fmt.Errorf("transaction %s already linked: %w", m.TransactionID, apperrors.ErrDuplicate)}
			} else {
				outcomes[i] = portsrepo.SaveOutcome{Err: fmt.Errorf("failed to save notification %s: %w", m.NotificationID, err)}
			}
			continue
		}
		outcomes[i] = portsrepo.SaveOutcome{ID: m.NotificationID, Created: cmdTag.RowsAffected() > 0}
	}
	return outcomes, nil
}

const selectNotificationColumns = `
	notification_id, user_id, transaction_id, timestamp, title, body
`

func (r *PgxNotificationRepository) FindNotifications(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Notification, error) {
	query := `
		SELECT ` + selectNotificationColumns + `
		FROM notifications
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp <= $3)
		ORDER BY timestamp DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *PgxNotificationRepository) FindNotificationsByTransactionIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Notification, error) {
	if len(transactionIDs) == 0 {
		return []domain.Notification{}, nil
	}
	query := `
		SELECT ` + selectNotificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND transaction_id = ANY($2)
		ORDER BY timestamp DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications by transaction IDs: %w", err)
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func collectNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	for rows.Next() {
		var m models.Notification
		err := rows.Scan(
			&m.NotificationID,
			&m.UserID,
			&m.TransactionID,
			&m.Timestamp,
			&m.Title,
			&m.Body,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, toDomainNotification(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}
	return notifications, nil
}
