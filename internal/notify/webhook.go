// Package notify announces new listing submissions to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
	submissionKind = "listing.submitted"
)

// Doer sends HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookNotifier posts a JSON summary of each submission to a fixed URL.
type WebhookNotifier struct {
	client Doer
	url    string
}

// NewWebhookNotifier builds a notifier for url. A nil client is replaced by an
// ID token client for url (so the receiver can be an authenticated Cloud Run
// service) or, when no Google credentials are available, a plain client.
func NewWebhookNotifier(ctx context.Context, client Doer, url string) (*WebhookNotifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("webhook url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(ctx, url)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("webhook: no id token credentials, posting unauthenticated")
			client = &http.Client{Timeout: defaultTimeout}
		} else {
			idc.Timeout = defaultTimeout
			client = idc
		}
	}
	return &WebhookNotifier{client: client, url: url}, nil
}

// SubmissionEvent is the webhook payload.
type SubmissionEvent struct {
	Kind        string     `json:"kind"`
	BusinessID  string     `json:"business_id"`
	Name        string     `json:"name"`
	Categories  []string   `json:"categories"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// NotifySubmission posts the submission. Any non-2xx answer is an error.
func (n *WebhookNotifier) NotifySubmission(ctx context.Context, business entity.Business) error {
	event := SubmissionEvent{
		Kind:        submissionKind,
		BusinessID:  business.ID,
		Name:        business.Name,
		Categories:  business.AllCategories(),
		City:        value(business.City),
		State:       value(business.State),
		OwnerID:     business.OwnerID,
		Status:      business.Status,
		SubmittedAt: business.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := logging.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook error: %s", extractError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func extractError(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.Status
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
