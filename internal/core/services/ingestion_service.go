package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/dto"
	"github.com/vladisc/financial-server/internal/middleware"
	"github.com/vladisc/financial-server/internal/utils"
)

// ingestionService reconciles inbound notification batches into transactions.
type ingestionService struct {
	transactionRepo  portsrepo.TransactionRepositoryWithTx
	notificationRepo portsrepo.NotificationRepositoryWithTx
	userSvc          portssvc.UserReaderSvc
	extractor        portssvc.TransactionExtractor
}

// NewIngestionService creates the notification ingestion service.
func NewIngestionService(
	transactionRepo portsrepo.TransactionRepositoryWithTx,
	notificationRepo portsrepo.NotificationRepositoryWithTx,
	userSvc portssvc.UserReaderSvc,
	extractor portssvc.TransactionExtractor,
) portssvc.NotificationSvcFacade {
	return &ingestionService{
		transactionRepo:  transactionRepo,
		notificationRepo: notificationRepo,
		userSvc:          userSvc,
		extractor:        extractor,
	}
}

// Ensure ingestionService implements the portssvc.NotificationSvcFacade interface
var _ portssvc.NotificationSvcFacade = (*ingestionService)(nil)

// IngestNotifications runs the reconciliation pipeline for one batch:
// fingerprints are computed up front, extraction runs once for the whole
// batch with the user's history as context, and every notification ends up
// linked to exactly one transaction — a fully extracted one when the model
// delivered, a placeholder otherwise.
func (s *ingestionService) IngestNotifications(ctx context.Context, userID string, req dto.IngestNotificationsRequest) (*dto.IngestResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if userID == "" {
		return nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	if len(req) == 0 {
		return nil, fmt.Errorf("notification batch is empty: %w", apperrors.ErrValidation)
	}

	user, err := s.userSvc.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Identity first: every record's dedup keys are fixed before any
	// external call, so a retry of this exact batch recomputes them.
	notifications := make([]domain.Notification, len(req))
	for i, item := range req {
		notifications[i] = domain.Notification{
			NotificationID: utils.NotificationFingerprint(item.Timestamp, item.Title, item.Body),
			UserID:         userID,
			TransactionID:  utils.TransactionFingerprint(userID, item.Timestamp, item.Title, item.Body),
			Timestamp:      item.Timestamp,
			Title:          item.Title,
			Body:           item.Body,
		}
	}

	history := s.loadHistory(ctx, userID)
	hints := domain.ExtractionHints{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Company:   user.Company,
	}

	results, err := s.extractor.ExtractTransactions(ctx, notifications, hints, history)
	if err != nil {
		// Extraction degradation is never fatal to the batch.
		logger.Warn("Extraction failed, falling back to placeholders", slog.String("error", err.Error()))
		results = nil
	}

	transactions := buildTransactions(notifications, results)

	outcomes, err := s.transactionRepo.SaveTransactions(ctx, transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to persist transactions: %w", err)
	}

	resp := &dto.IngestResponse{
		Transactions:  []dto.TransactionResponse{},
		Notifications: []dto.NotificationResponse{},
		Errors:        []dto.IngestRecordError{},
	}

	// Transactions first, notifications second: a notification row is only
	// written once its transaction identifier is known to exist.
	toStore := make([]domain.Notification, 0, len(notifications))
	storeIndex := make([]int, 0, len(notifications))
	resolved := 0
	for i, outcome := range outcomes {
		if !outcome.Resolved() {
			resp.Errors = append(resp.Errors, dto.IngestRecordError{
				Index:          i,
				NotificationID: notifications[i].NotificationID,
				Error:          outcome.Err.Error(),
			})
			continue
		}
		resolved++
		resp.Transactions = append(resp.Transactions, dto.ToTransactionResponse(&transactions[i]))
		toStore = append(toStore, notifications[i])
		storeIndex = append(storeIndex, i)
	}

	if resolved == 0 {
		return nil, fmt.Errorf("no transactions persisted for batch: %w", apperrors.ErrConflict)
	}

	notifOutcomes, err := s.notificationRepo.SaveNotifications(ctx, toStore)
	if err != nil {
		return nil, fmt.Errorf("failed to persist notifications: %w", err)
	}
	for j, outcome := range notifOutcomes {
		if outcome.Err != nil {
			resp.Errors = append(resp.Errors, dto.IngestRecordError{
				Index:          storeIndex[j],
				NotificationID: toStore[j].NotificationID,
				Error:          outcome.Err.Error(),
			})
			continue
		}
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(&toStore[j]))
	}

	logger.Info("Notification batch ingested",
		slog.Int("batch_size", len(req)),
		slog.Int("transactions_resolved", resolved),
		slog.Int("record_errors", len(resp.Errors)),
	)
	return resp, nil
}

// loadHistory assembles the extraction context: the latest transaction per
// type and the notifications those transactions came from. History is an
// extraction aid only, so read failures degrade to an empty context.
func (s *ingestionService) loadHistory(ctx context.Context, userID string) domain.ExtractionContext {
	logger := middleware.GetLoggerFromCtx(ctx)

	latest, err := s.transactionRepo.FindLatestPerType(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load transaction history for extraction", slog.String("error", err.Error()))
		return domain.ExtractionContext{}
	}
	if len(latest) == 0 {
		return domain.ExtractionContext{}
	}

	ids := make([]string, len(latest))
	for i, t := range latest {
		ids[i] = t.TransactionID
	}
	prior, err := s.notificationRepo.FindNotificationsByTransactionIDs(ctx, userID, ids)
	if err != nil {
		logger.Warn("Failed to load notification history for extraction", slog.String("error", err.Error()))
		prior = nil
	}

	return domain.ExtractionContext{Transactions: latest, Notifications: prior}
}

// buildTransactions pairs each notification with its extraction candidate.
// Complete candidates become fully populated AUTO transactions; anything else
// becomes a placeholder so the notification is never silently dropped.
func buildTransactions(notifications []domain.Notification, results []domain.ExtractionResult) []domain.Transaction {
	transactions := make([]domain.Transaction, len(notifications))
	for i, n := range notifications {
		if i >= len(results) || !results[i].Complete() {
			transactions[i] = domain.NewPlaceholderTransaction(n.TransactionID, n.UserID, n.Timestamp)
			continue
		}
		res := results[i]
		txn := domain.Transaction{
			TransactionID: n.TransactionID,
			UserID:        n.UserID,
			Timestamp:     n.Timestamp,
			Amount:        *res.Amount,
			Name:          *res.Name,
			Type:          res.Type,
			EditedBy:      domain.EditedByAuto,
		}
		if *res.Type == domain.Invoice {
			txn.DueDate = res.DueDate
			txn.InvoiceStatus = res.InvoiceStatus
		}
		transactions[i] = txn
	}
	return transactions
}

// ListNotifications returns the user's notifications inside the window,
// newest first.
func (s *ingestionService) ListNotifications(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	return s.notificationRepo.FindNotifications(ctx, userID, window)
}
