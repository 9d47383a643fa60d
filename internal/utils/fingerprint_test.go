package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vladisc/financial-server/internal/utils"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := utils.Fingerprint("user-1", "2024-05-01T10:00:00Z")
	b := utils.Fingerprint("user-1", "2024-05-01T10:00:00Z")

	assert.Equal(t, a, b)
	assert.Len(t, a, 20)
}

func TestFingerprint_DistinctInputs(t *testing.T) {
	a := utils.Fingerprint("user-1", "2024-05-01T10:00:00Z")
	b := utils.Fingerprint("user-2", "2024-05-01T10:00:00Z")
	c := utils.Fingerprint("user-1", "2024-05-01T10:00:01Z")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNotificationFingerprint_NormalizesTimezone(t *testing.T) {
	utc := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t,
		utils.NotificationFingerprint(utc, "Payment", "You paid 12.50"),
		utils.NotificationFingerprint(offset, "Payment", "You paid 12.50"),
	)
}

func TestNotificationFingerprint_ContentSensitive(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	base := utils.NotificationFingerprint(ts, "Payment", "You paid 12.50")
	assert.NotEqual(t, base, utils.NotificationFingerprint(ts, "Payment", "You paid 12.51"))
	assert.NotEqual(t, base, utils.NotificationFingerprint(ts, "Refund", "You paid 12.50"))
}

func TestTransactionFingerprint_DeterministicForSameSubmission(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// Only submitted content participates, never extracted fields, so a
	// retry of the same batch recomputes the same identity.
	assert.Equal(t,
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 12.50"),
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 12.50"),
	)
	assert.NotEqual(t,
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 12.50"),
		utils.TransactionFingerprint("user-1", ts.Add(time.Second), "Payment", "You paid 12.50"),
	)
}

func TestTransactionFingerprint_SameSecondEventsStayDistinct(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// Two different notifications arriving in the same second for one user
	// must not resolve to the same transaction row.
	assert.NotEqual(t,
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 12.50"),
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 8.00"),
	)
	assert.NotEqual(t,
		utils.TransactionFingerprint("user-1", ts, "Payment", "You paid 12.50"),
		utils.TransactionFingerprint("user-2", ts, "Payment", "You paid 12.50"),
	)
}
