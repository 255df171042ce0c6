package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func snapshotEvent() Event {
	return Event{
		Type:         EventTypeSnapshotUpdated,
		SnapshotPath: "data/news.json",
		Checksum:     "deadbeefdeadbeef",
		Bytes:        2048,
		Categories:   map[string]int{"World": 42},
		TickerSize:   15,
		GeneratedAt:  time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
}

func TestHTTPPublisherDelivers(t *testing.T) {
	var gotAuth string
	var gotBody Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:     srv.URL,
			Headers: map[string]string{"Authorization": "Bearer token"},
		},
	})

	pub, err := newHTTPPublisher(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher failed: %v", err)
	}
	if pub.ID() != "hook" || pub.Type() != TypeHTTP {
		t.Errorf("identity = %s/%s", pub.ID(), pub.Type())
	}

	if err := pub.Publish(context.Background(), snapshotEvent()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if gotAuth != "Bearer token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Type != EventTypeSnapshotUpdated {
		t.Errorf("event type = %q", gotBody.Type)
	}
	if gotBody.Categories["World"] != 42 {
		t.Errorf("categories = %v", gotBody.Categories)
	}
}

func TestHTTPPublisherErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL},
	})

	pub, err := newHTTPPublisher(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher failed: %v", err)
	}
	if err := pub.Publish(context.Background(), snapshotEvent()); err == nil {
		t.Error("Publish accepted a 502 response")
	}
}

// stubPublisher counts deliveries and optionally fails.
type stubPublisher struct {
	id    string
	fail  bool
	calls atomic.Int32
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return "stub" }

func (s *stubPublisher) Publish(ctx context.Context, evt Event) error {
	s.calls.Add(1)
	if s.fail {
		return errors.New("delivery refused")
	}
	return nil
}

func TestNotifyAll(t *testing.T) {
	ok1 := &stubPublisher{id: "a"}
	bad := &stubPublisher{id: "b", fail: true}
	ok2 := &stubPublisher{id: "c"}

	failed := NotifyAll(context.Background(), []Publisher{ok1, bad, ok2}, snapshotEvent(), nil)
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	for _, pub := range []*stubPublisher{ok1, bad, ok2} {
		if got := pub.calls.Load(); got != 1 {
			t.Errorf("publisher %s called %d times", pub.id, got)
		}
	}
}

func TestNotifyAllEmpty(t *testing.T) {
	if failed := NotifyAll(context.Background(), nil, snapshotEvent(), nil); failed != 0 {
		t.Errorf("failed = %d, want 0", failed)
	}
}

func TestBuildAllSkipsDisabled(t *testing.T) {
	off := false
	cfgs := []PublisherConfig{
		sanitizePublisherConfig(PublisherConfig{
			ID:   "hook",
			Type: TypeHTTP,
			HTTP: &HTTPPublisherConfig{URL: "https://hooks.example.com/news"},
		}),
		{ID: "disabled", Type: TypeQueue, Enabled: &off},
	}

	pubs, err := BuildAll(context.Background(), DefaultRegistry(), cfgs, nil)
	if err != nil {
		t.Fatalf("BuildAll failed: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "hook" {
		t.Errorf("pubs = %v", pubs)
	}
}
