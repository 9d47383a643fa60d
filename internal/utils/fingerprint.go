package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// fingerprintLength is the number of hex characters kept from the SHA-256
// digest. 80 bits is compact enough for a varchar key and keeps accidental
// collision probability negligible at the expected record volume.
const fingerprintLength = 20

// Fingerprint derives a deterministic, collision-resistant identifier from
// the given parts: the hex SHA-256 of the "-"-joined parts, truncated to 20
// characters. Pure function; identical input always yields identical output.
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "-")))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// NotificationFingerprint computes the dedup key of a notification from its
// semantic content.
func NotificationFingerprint(timestamp time.Time, title, body string) string {
	return Fingerprint(timestamp.UTC().Format(time.RFC3339), title, body)
}

// TransactionFingerprint computes the identity of a transaction from its
// owner, timestamp and the submitted content parts (notification title and
// body for ingested rows, name and amount for manual entries). Deliberately
// independent of extracted fields, so retries converge on the same row no
// matter what the extractor returned, while two distinct same-second events
// keep distinct identities.
func TransactionFingerprint(userID string, timestamp time.Time, parts ...string) string {
	keyed := append([]string{userID, timestamp.UTC().Format(time.RFC3339)}, parts...)
	return Fingerprint(keyed...)
}
