package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/dto"
	"github.com/vladisc/financial-server/internal/middleware"
	"github.com/vladisc/financial-server/internal/utils"
)

var (
	ErrNotAnInvoice        = errors.New("transaction is not an invoice")
	ErrInvalidStatusTarget = errors.New("invoice status is not a valid transition target")
	ErrInvalidInitialState = errors.New("invoice status must start as CONFIRMED or UNCONFIRMED")
	ErrInvoiceFieldsOnly   = errors.New("due date and invoice status apply to invoices only")
)

// transactionService provides transaction CRUD and the invoice lifecycle.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryWithTx
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryWithTx) portssvc.TransactionSvcFacade {
	return &transactionService{transactionRepo: transactionRepo}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// getOwned fetches a transaction and hides other users' rows behind NotFound.
func (s *transactionService) getOwned(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return s.getOwned(ctx, userID, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	return s.transactionRepo.FindTransactions(ctx, userID, window)
}

// CreateTransaction records a manually entered transaction. The identity is
// the same content fingerprint scheme ingestion uses, keyed here on name and
// amount, so a duplicate manual entry is rejected instead of silently
// re-created.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	if req.Type != nil && !req.Type.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", *req.Type, apperrors.ErrValidation)
	}

	isInvoice := req.Type != nil && *req.Type == domain.Invoice
	if !isInvoice && (req.DueDate != nil || req.InvoiceStatus != nil) {
		return nil, fmt.Errorf("%w: %w", ErrInvoiceFieldsOnly, apperrors.ErrValidation)
	}

	timestamp := time.Now().UTC().Truncate(time.Second)
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	txn := domain.Transaction{
		TransactionID: utils.TransactionFingerprint(userID, timestamp, req.Name, req.Amount.String()),
		UserID:        userID,
		Timestamp:     timestamp,
		Amount:        req.Amount,
		Name:          req.Name,
		Type:          req.Type,
		EditedBy:      domain.EditedByUser,
	}
	if isInvoice {
		status := domain.InvoiceUnconfirmed
		if req.InvoiceStatus != nil {
			status = *req.InvoiceStatus
			if status != domain.InvoiceConfirmed && status != domain.InvoiceUnconfirmed {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInitialState, apperrors.ErrValidation)
			}
		}
		txn.InvoiceStatus = &status
		txn.DueDate = req.DueDate
	}

	outcomes, err := s.transactionRepo.SaveTransactions(ctx, []domain.Transaction{txn})
	if err != nil {
		return nil, err
	}
	if outcomes[0].Err != nil {
		return nil, outcomes[0].Err
	}
	if !outcomes[0].Created {
		return nil, fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	update := domain.TransactionUpdate{
		Timestamp: req.Timestamp,
		Amount:    req.Amount,
		Name:      req.Name,
	}
	if update.IsZero() {
		return nil, fmt.Errorf("no fields to update: %w", apperrors.ErrValidation)
	}

	if _, err := s.getOwned(ctx, userID, transactionID); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.UpdateTransactionFields(ctx, transactionID, update); err != nil {
		return nil, err
	}
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if _, err := s.getOwned(ctx, userID, transactionID); err != nil {
		return err
	}
	return s.transactionRepo.DeleteTransaction(ctx, transactionID)
}

// TransitionInvoiceStatus applies a manual lifecycle transition. Entering
// PAID stamps payDate with the transition time; entering any other state
// clears it. The transition always marks the row as USER-edited.
func (s *transactionService) TransitionInvoiceStatus(ctx context.Context, userID, transactionID string, status domain.InvoiceStatus) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !status.IsValid() || !status.IsManualTarget() {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidStatusTarget, status, apperrors.ErrValidation)
	}

	txn, err := s.getOwned(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsInvoice() {
		return nil, fmt.Errorf("%w: %w", ErrNotAnInvoice, apperrors.ErrValidation)
	}

	var payDate *time.Time
	if status == domain.InvoicePaid {
		now := time.Now().UTC().Truncate(time.Second)
		payDate = &now
	}

	if err := s.transactionRepo.UpdateInvoiceStatus(ctx, transactionID, status, payDate); err != nil {
		return nil, err
	}

	logger.Info("Invoice status transitioned",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(status)),
	)
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// ReconcileOverdueInvoices applies the time-driven transitions for invoices
// past their due date. Callers invoke this explicitly; nothing in the server
// runs it on a timer.
func (s *transactionService) ReconcileOverdueInvoices(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	now := time.Now().UTC().Truncate(time.Second)
	updated, err := s.transactionRepo.SweepOverdueInvoices(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("Overdue invoices reconciled", slog.Int64("updated", updated))
	}
	return updated, nil
}
