package repositories

import (
	"context"
	"time"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// SaveOutcome reports what an idempotent insert did for one record: the
// identifier the row now has, and whether the row was created by this call
// (false means an identical row already existed and the insert was a no-op).
// Err is set when that single record could not be persisted at all; other
// records in the same batch are unaffected.
type SaveOutcome struct {
	ID      string
	Created bool
	Err     error
}

// Resolved reports whether the record ended up with a usable identifier,
// whether freshly inserted or reused from an identical existing row.
func (o SaveOutcome) Resolved() bool {
	return o.Err == nil && o.ID != ""
}

// TimeWindow bounds a query to [Start, End]; either side may be nil.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	// SaveTransactions inserts the given transactions. Each insert is its
	// own atomic unit and is idempotent on the content-derived primary key:
	// an existing row is left untouched and its identifier is reported with
	// Created=false. A failure for one record is recorded in its outcome
	// and does not abort the rest. Outcomes are positional with the input.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) ([]SaveOutcome, error)

	// FindTransactionByID returns the transaction or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactions lists a user's transactions inside the window,
	// newest first.
	FindTransactions(ctx context.Context, userID string, window TimeWindow) ([]domain.Transaction, error)

	// FindLatestPerType returns the most recent transaction of each
	// transaction type the user has.
	FindLatestPerType(ctx context.Context, userID string) ([]domain.Transaction, error)

	// UpdateTransactionFields applies a partial field update and flips
	// edited_by to USER.
	UpdateTransactionFields(ctx context.Context, transactionID string, update domain.TransactionUpdate) error

	// UpdateInvoiceStatus sets the invoice status, stamps or clears
	// pay_date, and flips edited_by to USER, atomically.
	UpdateInvoiceStatus(ctx context.Context, transactionID string, status domain.InvoiceStatus, payDate *time.Time) error

	// SweepOverdueInvoices applies the time-driven transitions for invoices
	// whose due date has passed: CONFIRMED to PAID (stamping pay_date with
	// now) and UNCONFIRMED to UNPAID. Returns the number of rows changed.
	SweepOverdueInvoices(ctx context.Context, userID string, now time.Time) (int64, error)

	// DeleteTransaction removes the row; apperrors.ErrNotFound if absent.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryWithTx couples the repository with transaction management.
type TransactionRepositoryWithTx interface {
	TransactionRepository
	TransactionManager
}
