package services

import (
	"context"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// TransactionExtractor is the boundary to the external text-understanding
// service that turns raw notification text into candidate transactions.
//
// Implementations must be defensive: a malformed or partial result for one
// notification yields an incomplete ExtractionResult at that position, and a
// network failure, timeout, or fully unparseable response yields (nil, nil)
// for the whole batch. The orchestrator owns the placeholder fallback; the
// extractor never fails a batch.
type TransactionExtractor interface {
	// ExtractTransactions returns one candidate per input notification,
	// positionally aligned. A nil slice means the service produced no
	// usable output for the entire batch.
	ExtractTransactions(ctx context.Context, notifications []domain.Notification, hints domain.ExtractionHints, history domain.ExtractionContext) ([]domain.ExtractionResult, error)
}
