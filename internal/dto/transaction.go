package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// CreateTransactionRequest defines the payload for manual transaction entry.
type CreateTransactionRequest struct {
	Timestamp     *time.Time              `json:"timestamp"`
	Amount        decimal.Decimal         `json:"amount" binding:"required"`
	Name          string                  `json:"name" binding:"required"`
	Type          *domain.TransactionType `json:"type" binding:"omitempty,transactiontype"`
	DueDate       *time.Time              `json:"dueDate"`
	InvoiceStatus *domain.InvoiceStatus   `json:"invoiceStatus" binding:"omitempty,invoicestatus"`
}

// UpdateTransactionRequest defines the data allowed for a partial update.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateTransactionRequest struct {
	Timestamp *time.Time       `json:"timestamp"`
	Amount    *decimal.Decimal `json:"amount"`
	Name      *string          `json:"name"`
}

// TransitionInvoiceStatusRequest carries the target state of a manual
// invoice-status transition.
type TransitionInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,invoicestatus"`
}

// TransactionResponse is the outward shape of a transaction.
type TransactionResponse struct {
	TransactionID string                  `json:"transactionID"`
	Timestamp     time.Time               `json:"timestamp"`
	Amount        decimal.Decimal         `json:"amount"`
	Name          string                  `json:"name"`
	Type          *domain.TransactionType `json:"type,omitempty"`
	EditedBy      domain.EditedBy         `json:"editedBy"`
	DueDate       *time.Time              `json:"dueDate,omitempty"`
	PayDate       *time.Time              `json:"payDate,omitempty"`
	InvoiceStatus *domain.InvoiceStatus   `json:"invoiceStatus,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Timestamp:     t.Timestamp,
		Amount:        t.Amount,
		Name:          t.Name,
		Type:          t.Type,
		EditedBy:      t.EditedBy,
		DueDate:       t.DueDate,
		PayDate:       t.PayDate,
		InvoiceStatus: t.InvoiceStatus,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToTransactionResponse(&ts[i])
	}
	return out
}

// ReconcileInvoicesResponse reports how many invoices the overdue sweep moved.
type ReconcileInvoicesResponse struct {
	Updated int64 `json:"updated"`
}
