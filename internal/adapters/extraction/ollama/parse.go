package ollama

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// generateLine is one NDJSON fragment of a (possibly streamed) inference
// response. Only the partial text field matters here.
type generateLine struct {
	Response string `json:"response"`
}

// assembleResponseText reassembles the model's text output. The service may
// answer with a single JSON object or with newline-delimited fragments whose
// "response" fields must be concatenated before any structural parse. Lines
// that are not valid JSON are skipped; if no line carried a response field,
// the raw body is returned as-is.
func assembleResponseText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	merged := false
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var frag generateLine
		if err := json.Unmarshal([]byte(line), &frag); err != nil {
			continue
		}
		b.WriteString(frag.Response)
		merged = true
	}
	if !merged {
		return string(raw), nil
	}
	return b.String(), nil
}

// extractJSONDocument locates the JSON payload inside surrounding non-JSON
// text: markdown fences are stripped, then the substring from the first "["
// to the last "]" is kept. A bare object answer (single-notification mode) is
// wrapped into a one-element array so both response shapes decode the same
// way.
func extractJSONDocument(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			return strings.TrimSpace(s[start : end+1])
		}
	}
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			return "[" + strings.TrimSpace(s[start:end+1]) + "]"
		}
	}
	return ""
}

// wireResult mirrors the extraction service's per-record output. Every field
// is optional so a partial record still decodes.
type wireResult struct {
	Amount        *float64 `json:"amount"`
	Name          *string  `json:"name"`
	Type          *string  `json:"type"`
	DueDate       *string  `json:"dueDate"`
	InvoiceStatus *string  `json:"invoiceStatus"`
}

// decodeResults turns assembled model text into candidates, positionally
// aligned with the input batch. Records that fail to decode or carry
// unrecognized enum values degrade to empty candidates; a document that fails
// to decode entirely yields nil.
func decodeResults(text string, batchSize int) []domain.ExtractionResult {
	doc := extractJSONDocument(text)
	if doc == "" {
		return nil
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal([]byte(doc), &rawRecords); err != nil {
		return nil
	}

	results := make([]domain.ExtractionResult, batchSize)
	for i, raw := range rawRecords {
		if i >= batchSize {
			break
		}
		var w wireResult
		if err := json.Unmarshal(raw, &w); err != nil {
			continue
		}
		results[i] = toExtractionResult(w)
	}
	return results
}

func toExtractionResult(w wireResult) domain.ExtractionResult {
	var res domain.ExtractionResult

	if w.Amount != nil {
		amount := decimal.NewFromFloat(*w.Amount).Round(2)
		res.Amount = &amount
	}
	if w.Name != nil && strings.TrimSpace(*w.Name) != "" {
		name := strings.TrimSpace(*w.Name)
		res.Name = &name
	}
	if w.Type != nil {
		t := domain.TransactionType(strings.ToUpper(strings.TrimSpace(*w.Type)))
		if t.IsValid() {
			res.Type = &t
		}
	}
	if w.DueDate != nil {
		if due, ok := parseTimestamp(*w.DueDate); ok {
			res.DueDate = &due
		}
	}
	if w.InvoiceStatus != nil {
		s := domain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(*w.InvoiceStatus)))
		// Extraction may only seed the initial lifecycle states. PAID,
		// UNPAID and CANCELED are reachable through transitions alone; a
		// model answering one of those is treated as answering nothing,
		// which degrades the candidate to a placeholder.
		if s == domain.InvoiceConfirmed || s == domain.InvoiceUnconfirmed {
			res.InvoiceStatus = &s
		}
	}
	return res
}

// timestampLayouts are tried in order; models answer with full RFC 3339,
// zone-less timestamps, or bare dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
