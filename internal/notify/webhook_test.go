package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/logging"
)

func TestWebhookNotifier_NotifySubmission(t *testing.T) {
	var (
		got       SubmissionEvent
		requestID string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier, err := NewWebhookNotifier(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	city := " Austin "
	business := entity.Business{
		ID:         "b-1",
		Name:       "Rainbow Bakery",
		Categories: []string{"Restaurants & Dining"},
		City:       &city,
		OwnerID:    "user-1",
		Status:     entity.StatusPending,
		CreatedAt:  &created,
	}

	ctx := logging.WithRequestID(context.Background(), "req-1")
	if err := notifier.NotifySubmission(ctx, business); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestID != "req-1" {
		t.Fatalf("expected request id to be forwarded, got %q", requestID)
	}
	if got.Kind != "listing.submitted" || got.BusinessID != "b-1" || got.City != "Austin" || got.OwnerID != "user-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.SubmittedAt == nil || !got.SubmittedAt.Equal(created) {
		t.Fatalf("unexpected submitted_at: %v", got.SubmittedAt)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
		want   string
	}{
		"json error": {
			status: http.StatusBadGateway,
			body:   `{"error":"queue full"}`,
			want:   "webhook error: queue full",
		},
		"plain text": {
			status: http.StatusForbidden,
			body:   "nope",
			want:   "webhook error: nope",
		},
		"empty body": {
			status: http.StatusInternalServerError,
			want:   "webhook error: 500 Internal Server Error",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			notifier, err := NewWebhookNotifier(context.Background(), server.Client(), server.URL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			err = notifier.NotifySubmission(context.Background(), entity.Business{ID: "b-1", Name: "Rainbow Bakery"})
			if err == nil || err.Error() != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewWebhookNotifier_RequiresURL(t *testing.T) {
	if _, err := NewWebhookNotifier(context.Background(), http.DefaultClient, "  "); err == nil || !strings.Contains(err.Error(), "must not be empty") {
		t.Fatalf("expected url error, got %v", err)
	}
}
