package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractionHints are the user-profile fields passed to the extractor so it
// can disambiguate counterparties (e.g. salary from the user's own employer
// versus a transfer between own accounts).
type ExtractionHints struct {
	FirstName string
	LastName  string
	Company   string
}

// ExtractionContext is the per-user history handed to the extractor alongside
// a batch: the most recent transaction of each known type plus the
// notifications those transactions were derived from. Ephemeral, never
// persisted.
type ExtractionContext struct {
	Transactions  []Transaction
	Notifications []Notification
}

// ExtractionResult is one candidate transaction produced by the extraction
// service for one notification. Every field is optional: the external model
// may return partial or no data, and only the extraction adapter populates
// this type from wire output.
type ExtractionResult struct {
	Amount        *decimal.Decimal
	Name          *string
	Type          *TransactionType
	DueDate       *time.Time
	InvoiceStatus *InvoiceStatus
}

// Complete reports whether the candidate carries every field required to
// promote it to a confirmed transaction: amount, name and type, plus due date
// and invoice status when the type is INVOICE. Incomplete candidates degrade
// to placeholder transactions.
func (r ExtractionResult) Complete() bool {
	if r.Amount == nil || r.Name == nil || r.Type == nil {
		return false
	}
	if *r.Type == Invoice {
		return r.DueDate != nil && r.InvoiceStatus != nil
	}
	return true
}
