package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vladisc/financial-server/internal/apperrors"
	"github.com/vladisc/financial-server/internal/core/domain"
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	"github.com/vladisc/financial-server/internal/models"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository{Pool: db}}
}

// Ensure PgxTransactionRepository implements the port
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction
func toModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Timestamp:     d.Timestamp,
		Amount:        d.Amount,
		Name:          d.Name,
		EditedBy:      string(d.EditedBy),
		DueDate:       d.DueDate,
		PayDate:       d.PayDate,
	}
	if d.Type != nil {
		t := string(*d.Type)
		m.Type = &t
	}
	if d.InvoiceStatus != nil {
		s := string(*d.InvoiceStatus)
		m.InvoiceStatus = &s
	}
	return m
}

// Helper to convert models.Transaction to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Timestamp:     m.Timestamp,
		Amount:        m.Amount,
		Name:          m.Name,
		EditedBy:      domain.EditedBy(m.EditedBy),
		DueDate:       m.DueDate,
		PayDate:       m.PayDate,
	}
	if m.Type != nil {
		t := domain.TransactionType(*m.Type)
		d.Type = &t
	}
	if m.InvoiceStatus != nil {
		s := domain.InvoiceStatus(*m.InvoiceStatus)
		d.InvoiceStatus = &s
	}
	return d
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, user_id, timestamp, amount, name, type, edited_by, due_date, pay_date, invoice_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (transaction_id) DO NOTHING;
`

func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) ([]portsrepo.SaveOutcome, error) {
	outcomes := make([]portsrepo.SaveOutcome, len(txns))
	for i, txn := range txns {
		m := toModelTransaction(txn)
		cmdTag, err := r.Pool.Exec(ctx, insertTransactionQuery,
			m.TransactionID,
			m.UserID,
			m.Timestamp,
			m.Amount,
			m.Name,
			m.Type,
			m.EditedBy,
			m.DueDate,
			m.PayDate,
			m.InvoiceStatus,
		)
		if err != nil {
			outcomes[i] = portsrepo.SaveOutcome{Err: fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)}
			continue
		}
		// RowsAffected 0 means an identical content key already exists;
		// the prior identifier is the same fingerprint, so reuse it.
		outcomes[i] = portsrepo.SaveOutcome{ID: m.TransactionID, Created: cmdTag.RowsAffected() > 0}
	}
	return outcomes, nil
}

const selectTransactionColumns = `
	transaction_id, user_id, timestamp, amount, name, type, edited_by, due_date, pay_date, invoice_status
`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Timestamp,
		&m.Amount,
		&m.Name,
		&m.Type,
		&m.EditedBy,
		&m.DueDate,
		&m.PayDate,
		&m.InvoiceStatus,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := toDomainTransaction(m)
	return &d, nil
}

func (r *PgxTransactionRepository) FindTransactions(ctx context.Context, userID string, window portsrepo.TimeWindow) ([]domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp <= $3)
		ORDER BY timestamp DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) FindLatestPerType(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT DISTINCT ON (type) ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type IS NOT NULL
		ORDER BY type, timestamp DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest transactions per type: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, nil
}

func (r *PgxTransactionRepository) UpdateTransactionFields(ctx context.Context, transactionID string, update domain.TransactionUpdate) error {
	query := `
		UPDATE transactions
		SET timestamp = COALESCE($1, timestamp),
		    amount    = COALESCE($2, amount),
		    name      = COALESCE($3, name),
		    edited_by = 'USER'
		WHERE transaction_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, update.Timestamp, update.Amount, update.Name, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateInvoiceStatus(ctx context.Context, transactionID string, status domain.InvoiceStatus, payDate *time.Time) error {
	// The type = 'INVOICE' guard plus the table CHECK constraints keep the
	// PAID<=>pay_date invariant race-safe at the storage layer.
	query := `
		UPDATE transactions
		SET invoice_status = $1,
		    pay_date       = $2,
		    edited_by      = 'USER'
		WHERE transaction_id = $3 AND type = 'INVOICE';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), payDate, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update invoice status for %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) SweepOverdueInvoices(ctx context.Context, userID string, now time.Time) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	paid, err := tx.Exec(ctx, `
		UPDATE transactions
		SET invoice_status = 'PAID', pay_date = $2
		WHERE user_id = $1 AND type = 'INVOICE'
		  AND invoice_status = 'CONFIRMED' AND due_date <= $2;
	`, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep confirmed invoices: %w", err)
	}

	unpaid, err := tx.Exec(ctx, `
		UPDATE transactions
		SET invoice_status = 'UNPAID'
		WHERE user_id = $1 AND type = 'INVOICE'
		  AND invoice_status = 'UNCONFIRMED' AND due_date <= $2;
	`, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep unconfirmed invoices: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return paid.RowsAffected() + unpaid.RowsAffected(), nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	// The linked notification row, if any, is removed by the FK cascade.
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
