// Package audit delivers fire-and-forget audit records to the central audit
// API. Delivery failures are logged, never surfaced to the caller.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ActionType identifies what kind of event is being audited.
type ActionType string

const (
	// ActionContractFeedEventFilteredOut records a contract event that was
	// read from the feed but rejected by validation.
	ActionContractFeedEventFilteredOut ActionType = "ContractFeedEventFilteredOut"
)

// SeverityLevel grades an audit record.
type SeverityLevel string

const (
	SeverityInformation SeverityLevel = "Information"
	SeverityWarning     SeverityLevel = "Warning"
	SeverityError       SeverityLevel = "Error"
)

// Record is one audit entry.
type Record struct {
	Action   ActionType    `json:"action"`
	Severity SeverityLevel `json:"severity"`
	Message  string        `json:"message"`
	UKPRN    int           `json:"ukprn"`
	User     string        `json:"user"`
}

// Auditor sends audit records. TrySendAudit never returns an error; audit is
// advisory and must not abort feed processing.
type Auditor interface {
	TrySendAudit(ctx context.Context, record Record)
}

// Client posts audit records to an HTTP audit API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// TrySendAudit posts the record to the audit API. Any failure is swallowed
// after logging.
func (c *Client) TrySendAudit(ctx context.Context, record Record) {
	if c.endpoint == "" {
		slog.Debug("Audit endpoint not configured, dropping audit record", "action", record.Action)
		return
	}

	if err := c.send(ctx, record); err != nil {
		slog.Warn("Failed to deliver audit record", "action", record.Action, "error", err)
	}
}

func (c *Client) send(ctx context.Context, record Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post audit record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("audit api responded with status %d", resp.StatusCode)
	}
	return nil
}
