package services

import (
	"context"

	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	"github.com/vladisc/financial-server/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// GetTransaction retrieves one of the user's transactions by ID.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves the user's transactions inside the window,
	// newest first.
	ListTransactions(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transactions.
type TransactionWriterSvc interface {
	// CreateTransaction records a manually entered transaction
	// (editedBy = USER).
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction applies a partial field update, flipping editedBy
	// to USER.
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// InvoiceLifecycleSvc defines the invoice state machine operations.
type InvoiceLifecycleSvc interface {
	// TransitionInvoiceStatus applies a manual transition to one of
	// CANCELED, PAID or UNPAID. Rejected for non-invoice transactions and
	// unrecognized targets.
	TransitionInvoiceStatus(ctx context.Context, userID, transactionID string, status domain.InvoiceStatus) (*domain.Transaction, error)

	// ReconcileOverdueInvoices applies the time-driven transitions for the
	// user's invoices that are past due. Invoked explicitly by a caller;
	// nothing schedules it in-process.
	ReconcileOverdueInvoices(ctx context.Context, userID string) (int64, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	InvoiceLifecycleSvc
}
