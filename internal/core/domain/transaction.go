package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the financial movement a transaction represents.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Invoice  TransactionType = "INVOICE"
	Refund   TransactionType = "REFUND"
	Transfer TransactionType = "TRANSFER"
	Dividend TransactionType = "DIVIDEND"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Invoice, Refund, Transfer, Dividend:
		return true
	}
	return false
}

// InvoiceStatus is the lifecycle state of an INVOICE transaction.
type InvoiceStatus string

const (
	InvoiceConfirmed   InvoiceStatus = "CONFIRMED"
	InvoiceUnconfirmed InvoiceStatus = "UNCONFIRMED"
	InvoiceCanceled    InvoiceStatus = "CANCELED"
	InvoicePaid        InvoiceStatus = "PAID"
	InvoiceUnpaid      InvoiceStatus = "UNPAID"
)

// IsValid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceConfirmed, InvoiceUnconfirmed, InvoiceCanceled, InvoicePaid, InvoiceUnpaid:
		return true
	}
	return false
}

// IsManualTarget reports whether s may be the target of a user-initiated
// transition. CONFIRMED/UNCONFIRMED are initial states only.
func (s InvoiceStatus) IsManualTarget() bool {
	switch s {
	case InvoiceCanceled, InvoicePaid, InvoiceUnpaid:
		return true
	}
	return false
}

// EditedBy records whether a transaction is still purely machine-derived or
// has been touched by a human.
type EditedBy string

const (
	EditedByAuto EditedBy = "AUTO"
	EditedByUser EditedBy = "USER"
)

// PlaceholderName is the sentinel counterparty name for transactions created
// when extraction yielded nothing usable.
const PlaceholderName = "undefined"

// Transaction represents one financial movement, extracted from a bank
// notification or entered manually.
//
// TransactionID is a content fingerprint of the owner, timestamp and the
// submitted content, so a re-ingested notification always converges on the
// same row. Type is nil for
// placeholder rows awaiting human correction. DueDate, PayDate and
// InvoiceStatus are populated only for INVOICE transactions, and PayDate is
// set exactly when InvoiceStatus == PAID.
type Transaction struct {
	TransactionID string           `json:"transactionID"`
	UserID        string           `json:"userID"`
	Timestamp     time.Time        `json:"timestamp"`
	Amount        decimal.Decimal  `json:"amount"`
	Name          string           `json:"name"`
	Type          *TransactionType `json:"type,omitempty"`
	EditedBy      EditedBy         `json:"editedBy"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
	PayDate       *time.Time       `json:"payDate,omitempty"`
	InvoiceStatus *InvoiceStatus   `json:"invoiceStatus,omitempty"`
}

// IsInvoice reports whether the transaction is of type INVOICE.
func (t Transaction) IsInvoice() bool {
	return t.Type != nil && *t.Type == Invoice
}

// TransactionUpdate is a partial, user-initiated field update. Nil fields
// are left untouched; applying any update flips EditedBy to USER.
type TransactionUpdate struct {
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Name      *string          `json:"name,omitempty"`
}

// IsZero reports whether the update would touch nothing.
func (u TransactionUpdate) IsZero() bool {
	return u.Timestamp == nil && u.Amount == nil && u.Name == nil
}

// NewPlaceholderTransaction builds the fallback transaction persisted when
// extraction failed for a notification, so the notification is never
// silently dropped.
func NewPlaceholderTransaction(id, userID string, timestamp time.Time) Transaction {
	return Transaction{
		TransactionID: id,
		UserID:        userID,
		Timestamp:     timestamp,
		Amount:        decimal.Zero,
		Name:          PlaceholderName,
		EditedBy:      EditedByAuto,
	}
}
