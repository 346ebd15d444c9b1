package auditfeed

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

func sampleEntry() domain.AuditLog {
	return domain.AuditLog{
		ID:        "a1",
		Timestamp: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		UserID:    "1",
		UserName:  "Maria Silva Santos",
		Action:    domain.ActionCreatedEvent,
		Details:   "Workshop X",
	}
}

func TestWebhookPublisherSuccess(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	secret := "test-secret"
	pub := NewWebhookPublisher(srv.URL, secret, 5*time.Second)
	entry := sampleEntry()

	if err := pub.Publish(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if action := gotHeaders.Get("X-Eventdesk-Action"); action != domain.ActionCreatedEvent {
		t.Errorf("X-Eventdesk-Action = %q, want %q", action, domain.ActionCreatedEvent)
	}
	if user := gotHeaders.Get("X-Eventdesk-User"); user != "1" {
		t.Errorf("X-Eventdesk-User = %q, want 1", user)
	}

	sigHeader := gotHeaders.Get("X-Hub-Signature-256")
	if !strings.HasPrefix(sigHeader, "sha256=") {
		t.Fatalf("X-Hub-Signature-256 header missing or malformed: %q", sigHeader)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	if got, want := strings.TrimPrefix(sigHeader, "sha256="), hex.EncodeToString(mac.Sum(nil)); got != want {
		t.Errorf("signature mismatch: got %q, want %q", got, want)
	}

	var decoded domain.AuditLog
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Summary() != "created event: Workshop X" {
		t.Errorf("summary = %q", decoded.Summary())
	}
}

func TestWebhookPublisherNon2xxReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookPublisher(srv.URL, "secret", 5*time.Second).Publish(context.Background(), sampleEntry())
	if err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention status code 500, got: %v", err)
	}
}

func TestWebhookPublisherContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWebhookPublisher(srv.URL, "secret", 5*time.Second).Publish(ctx, sampleEntry())
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error to wrap context.Canceled, got: %v", err)
	}
}

func TestWebhookPublisherZeroTimeoutUsesDefault(t *testing.T) {
	pub := NewWebhookPublisher("http://localhost:9", "s", 0)
	if pub.client.Timeout != defaultWebhookTimeout {
		t.Errorf("timeout = %v, want %v", pub.client.Timeout, defaultWebhookTimeout)
	}
}

func TestLogPublisherWritesEntry(t *testing.T) {
	logger, hook := test.NewNullLogger()
	pub := NewLogPublisher(logger)

	if err := pub.Publish(context.Background(), sampleEntry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.InfoLevel {
		t.Errorf("level = %v, want info", entry.Level)
	}
	if entry.Data["action"] != domain.ActionCreatedEvent || entry.Data["details"] != "Workshop X" {
		t.Errorf("unexpected fields: %v", entry.Data)
	}
}
