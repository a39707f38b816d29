package eventstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/platform/httpclient"

	"github.com/google/uuid"
)

func TestTransport_PostsEnvelopeWithStreamHeaders(t *testing.T) {
	var got *http.Request
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	id := uuid.New()
	tr := NewTransport(httpclient.New(time.Second), srv.URL+"/streams/mattermost-clicks")
	err := tr.Deliver(context.Background(), domain.Envelope{
		ID:        id,
		EventType: "WindowScrolled",
		Body:      []byte(`{"delta":9,"owner":"u","duration":0.9,"@timestamp":"2026-04-02T09:30:15.123Z"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Method != http.MethodPost || got.URL.Path != "/streams/mattermost-clicks" {
		t.Fatalf("unexpected request %s %s", got.Method, got.URL.Path)
	}
	if got.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", got.Header.Get("Content-Type"))
	}
	if got.Header.Get(HeaderEventType) != "WindowScrolled" {
		t.Fatalf("unexpected event type header %q", got.Header.Get(HeaderEventType))
	}
	if got.Header.Get(HeaderEventID) != id.String() {
		t.Fatalf("unexpected event id header %q", got.Header.Get(HeaderEventID))
	}
	if body != `{"delta":9,"owner":"u","duration":0.9,"@timestamp":"2026-04-02T09:30:15.123Z"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestTransport_RejectedEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tr := NewTransport(httpclient.New(time.Second), srv.URL)
	err := tr.Deliver(context.Background(), domain.Envelope{ID: uuid.New(), EventType: "X", Body: []byte(`{}`)})
	if !errors.Is(err, httpclient.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestNewTransport_DefaultURL(t *testing.T) {
	if tr := NewTransport(httpclient.New(0), ""); tr.url != DefaultURL {
		t.Fatalf("expected default url, got %s", tr.url)
	}
}
