// Package ollama implements the transaction extraction boundary against an
// Ollama-compatible inference endpoint. It is deliberately forgiving: the
// model's output is treated as hostile input, and every failure mode (network,
// timeout, malformed JSON, partial records) degrades to "no result" instead of
// an error the caller would have to retry.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vladisc/financial-server/internal/core/domain"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/middleware"
	"github.com/vladisc/financial-server/internal/platform/config"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds the extraction client. Connect, response-header and
// whole-request timeouts are bounded independently: the inference service can
// legitimately take tens of seconds to answer, but a dead host must not hold
// an ingestion batch for that long.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ExtractionURL, "/"),
		model:   cfg.ExtractionModel,
		httpClient: &http.Client{
			Timeout: cfg.ExtractionRequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ExtractionConnectTimeout,
				}).DialContext,
				ResponseHeaderTimeout: cfg.ExtractionHeaderTimeout,
			},
		},
	}
}

// Ensure Client implements the extractor port
var _ portssvc.TransactionExtractor = (*Client)(nil)

// generateRequest is the wire request of the inference service.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (c *Client) ExtractTransactions(ctx context.Context, notifications []domain.Notification, hints domain.ExtractionHints, history domain.ExtractionContext) ([]domain.ExtractionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if len(notifications) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(notifications, hints, history),
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unreachable service or timeout: the whole batch degrades to
		// placeholders upstream.
		logger.Warn("Extraction service call failed", slog.String("error", err.Error()))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Extraction service returned non-success status", slog.Int("status", resp.StatusCode))
		return nil, nil
	}

	text, err := assembleResponseText(resp.Body)
	if err != nil {
		logger.Warn("Failed to read extraction response", slog.String("error", err.Error()))
		return nil, nil
	}

	results := decodeResults(text, len(notifications))
	if results == nil {
		logger.Warn("Extraction response contained no parseable candidates")
	}
	return results, nil
}

func buildPrompt(notifications []domain.Notification, hints domain.ExtractionHints, history domain.ExtractionContext) string {
	var b strings.Builder

	b.WriteString("You are a parser of bank push notifications.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- For EACH notification below, extract one transaction object.\n")
	b.WriteString("- Output STRICT JSON only: a JSON array with exactly one object per notification, in the same order.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"amount\": number\n")
	b.WriteString("- \"name\": string (counterparty)\n")
	b.WriteString("- \"type\": one of \"INCOME\", \"EXPENSE\", \"INVOICE\", \"REFUND\", \"TRANSFER\", \"DIVIDEND\"\n")
	b.WriteString("- \"dueDate\": ISO-8601 timestamp or null (invoices only)\n")
	b.WriteString("- \"invoiceStatus\": \"CONFIRMED\", \"UNCONFIRMED\" or null (invoices only)\n\n")

	if hints.FirstName != "" || hints.LastName != "" || hints.Company != "" {
		fmt.Fprintf(&b, "The account owner is %s %s", hints.FirstName, hints.LastName)
		if hints.Company != "" {
			fmt.Fprintf(&b, ", working at %s", hints.Company)
		}
		b.WriteString(". Use this to tell salary, dividends and own-account transfers apart.\n\n")
	}

	if len(history.Transactions) > 0 {
		b.WriteString("Latest transaction of each type, with the notification it came from:\n")
		for _, t := range history.Transactions {
			typ := "unknown"
			if t.Type != nil {
				typ = string(*t.Type)
			}
			fmt.Fprintf(&b, "- %s: %s to %s at %s", typ, t.Amount.StringFixed(2), t.Name, t.Timestamp.Format(time.RFC3339))
			for _, n := range history.Notifications {
				if n.TransactionID == t.TransactionID {
					fmt.Fprintf(&b, " (notification: %q)", n.Body)
					break
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Notifications:\n")
	for i, n := range notifications {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, n.Timestamp.Format(time.RFC3339), n.Title, n.Body)
	}

	b.WriteString("\nReturn ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}
