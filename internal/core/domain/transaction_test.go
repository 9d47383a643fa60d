package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vladisc/financial-server/internal/core/domain"
)

func TestInvoiceStatus_ManualTargets(t *testing.T) {
	assert.True(t, domain.InvoiceCanceled.IsManualTarget())
	assert.True(t, domain.InvoicePaid.IsManualTarget())
	assert.True(t, domain.InvoiceUnpaid.IsManualTarget())

	// Initial states cannot be the target of a manual transition.
	assert.False(t, domain.InvoiceConfirmed.IsManualTarget())
	assert.False(t, domain.InvoiceUnconfirmed.IsManualTarget())
	assert.False(t, domain.InvoiceStatus("BOGUS").IsManualTarget())
}

func TestExtractionResult_Complete(t *testing.T) {
	amount := decimal.NewFromFloat(10)
	name := "Shop"
	expense := domain.Expense
	invoice := domain.Invoice
	due := time.Now()
	status := domain.InvoiceConfirmed

	assert.False(t, domain.ExtractionResult{}.Complete())
	assert.False(t, domain.ExtractionResult{Amount: &amount, Name: &name}.Complete())
	assert.True(t, domain.ExtractionResult{Amount: &amount, Name: &name, Type: &expense}.Complete())

	// An invoice additionally needs its due date and status.
	assert.False(t, domain.ExtractionResult{Amount: &amount, Name: &name, Type: &invoice}.Complete())
	assert.True(t, domain.ExtractionResult{
		Amount: &amount, Name: &name, Type: &invoice, DueDate: &due, InvoiceStatus: &status,
	}.Complete())
}

func TestNewPlaceholderTransaction(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	txn := domain.NewPlaceholderTransaction("t1", "user-1", ts)

	assert.Equal(t, domain.PlaceholderName, txn.Name)
	assert.True(t, txn.Amount.IsZero())
	assert.Nil(t, txn.Type)
	assert.Equal(t, domain.EditedByAuto, txn.EditedBy)
	assert.False(t, txn.IsInvoice())
}
