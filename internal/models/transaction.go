package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database row shape for the transactions table.
// Amount is NUMERIC(10,2); nullable enum columns map to string pointers.
type Transaction struct {
	TransactionID string
	UserID        string
	Timestamp     time.Time
	Amount        decimal.Decimal
	Name          string
	Type          *string
	EditedBy      string
	DueDate       *time.Time
	PayDate       *time.Time
	InvoiceStatus *string
}
