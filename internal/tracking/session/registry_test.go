package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	feedbackDomain "usage-telemetry-service/internal/feedback/core/domain"
	feedbackPorts "usage-telemetry-service/internal/feedback/core/ports"
	feedbackUsecase "usage-telemetry-service/internal/feedback/core/usecase"
	"usage-telemetry-service/internal/platform/clock"
	"usage-telemetry-service/internal/tracking/adapters/memory"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
	"usage-telemetry-service/internal/tracking/core/usecase"
)

type recordingSink struct {
	mu      sync.Mutex
	records []domain.AggregatedRecord
	types   []string
}

func (s *recordingSink) Emit(payload any, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, eventType)
	if rec, ok := payload.(domain.AggregatedRecord); ok {
		s.records = append(s.records, rec)
	}
}

type nopLog struct{}

func (nopLog) Log(domain.LogEntry) {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistry(t *testing.T, size int, devMode bool) (*Registry, *recordingSink, *clock.FakeClock) {
	t.Helper()
	sink := &recordingSink{}
	r, clk := newRegistryWith(t, size, devMode, sink, memory.NewBucketStore())
	return r, sink, clk
}

func newRegistryWith(t *testing.T, size int, devMode bool, sink ports.EmissionSink, store ports.BucketStore) (*Registry, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	assigner := usecase.NewExperimentAssigner(store, discardLogger()).
		WithCoin(func() float64 { return 0.75 })
	setup := usecase.NewPageSetupUseCase(sink, nopLog{}, assigner, clk,
		usecase.PageConfig{DeveloperMode: devMode}, discardLogger())

	r, err := NewRegistry(setup, size, discardLogger())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return r, clk
}

// blockingStore holds GetItem for one scope until release is closed.
type blockingStore struct {
	ports.BucketStore
	scope   string
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	if scope == s.scope {
		close(s.entered)
		<-s.release
	}
	return s.BucketStore.GetItem(ctx, scope, key)
}

// fakeTransport records delivered envelopes.
type fakeTransport struct {
	mu   sync.Mutex
	envs []feedbackDomain.Envelope
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Deliver(ctx context.Context, env feedbackDomain.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.envs = append(f.envs, env)
	return nil
}

func (f *fakeTransport) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.envs))
	for _, e := range f.envs {
		out = append(out, e.EventType)
	}
	return out
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r, sink, clk := newRegistry(t, 10, false)
	ctx := context.Background()

	if err := r.PublishWheel(ctx, "a", []domain.RawEvent{{TimeStamp: 0, Magnitude: 1, Origin: "a"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := r.PublishWheel(ctx, "b", []domain.RawEvent{{TimeStamp: 0, Magnitude: 2, Origin: "b"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	clk.Advance(time.Second)

	if len(sink.records) != 2 {
		t.Fatalf("expected one record per client, got %d", len(sink.records))
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestRegistry_WheelBatchSharesWindow(t *testing.T) {
	r, sink, clk := newRegistry(t, 10, false)

	err := r.PublishWheel(context.Background(), "a", []domain.RawEvent{
		{TimeStamp: 1000, Magnitude: -3, Origin: "u"},
		{TimeStamp: 1500, Magnitude: 5, Origin: "u"},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	clk.Advance(time.Second)

	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}
	if sink.records[0].Delta != 8 || sink.records[0].Duration != 0.5 {
		t.Fatalf("unexpected record %+v", sink.records[0])
	}
}

func TestRegistry_EmptyClientID(t *testing.T) {
	r, _, _ := newRegistry(t, 10, false)
	if err := r.PublishClick(context.Background(), "", domain.Click{}); !errors.Is(err, ErrInvalidClientID) {
		t.Fatalf("expected ErrInvalidClientID, got %v", err)
	}
}

func TestRegistry_ExperimentIsStablePerClient(t *testing.T) {
	r, _, _ := newRegistry(t, 10, false)
	ctx := context.Background()

	g1, err := r.Experiment(ctx, "a")
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}
	g2, err := r.Experiment(ctx, "a")
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}
	if g1 != domain.GroupTreatment || g2 != g1 {
		t.Fatalf("expected stable treatment group, got %s then %s", g1, g2)
	}
}

func TestRegistry_LastErrorInDeveloperMode(t *testing.T) {
	r, _, _ := newRegistry(t, 10, true)
	ctx := context.Background()

	if _, ok := r.LastError("a"); ok {
		t.Fatalf("unknown client must have no error")
	}
	if r.Len() != 0 {
		t.Fatalf("LastError must not create sessions")
	}

	if err := r.PublishError(ctx, "a", domain.ClientError{Message: "boom", Line: "7", Column: "9"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	n, ok := r.LastError("a")
	if !ok || n.Type != "developer" {
		t.Fatalf("expected developer notice, got %+v %v", n, ok)
	}
}

func TestRegistry_EvictionKeepsScheduledWindow(t *testing.T) {
	r, sink, clk := newRegistry(t, 1, false)
	ctx := context.Background()

	if err := r.PublishWheel(ctx, "a", []domain.RawEvent{{Magnitude: 4, Origin: "a"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := r.PublishClick(ctx, "b", domain.Click{Target: &domain.Node{LocalName: "a"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected LRU to hold one session, got %d", r.Len())
	}

	clk.Advance(time.Second)

	if len(sink.records) != 1 || sink.records[0].Owner != "a" {
		t.Fatalf("expected evicted client's window to fire, got %+v", sink.records)
	}
}

func TestRegistry_DrainDeliversPendingWindowsBeforeClose(t *testing.T) {
	transport := &fakeTransport{}
	feedback := feedbackUsecase.NewFeedbackUseCase([]feedbackPorts.Transport{transport}, discardLogger())
	r, clk := newRegistryWith(t, 1, false, feedback, memory.NewBucketStore())
	ctx := context.Background()

	if err := r.PublishWheel(ctx, "a", []domain.RawEvent{{Magnitude: 3, Origin: "a"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// "b" evicts "a"; both windows are still pending.
	if err := r.PublishWheel(ctx, "b", []domain.RawEvent{{Magnitude: 5, Origin: "b"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	shutdown := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Drain(shutdownCtx); err != nil {
			shutdown <- err
			return
		}
		shutdown <- feedback.Close(shutdownCtx)
	}()

	select {
	case err := <-shutdown:
		t.Fatalf("shutdown finished with windows pending: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	clk.Advance(time.Second)

	select {
	case err := <-shutdown:
		if err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("shutdown did not finish after the windows fired")
	}

	got := transport.eventTypes()
	if len(got) != 2 || got[0] != domain.EventWindowScrolled || got[1] != domain.EventWindowScrolled {
		t.Fatalf("expected both windows delivered, got %v", got)
	}
}

func TestRegistry_DrainHonoursContext(t *testing.T) {
	r, _, _ := newRegistry(t, 10, false)
	if err := r.PublishWheel(context.Background(), "a", []domain.RawEvent{{Magnitude: 1}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Drain(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegistry_SlowExperimentStoreDoesNotBlockOtherClients(t *testing.T) {
	store := &blockingStore{
		BucketStore: memory.NewBucketStore(),
		scope:       "slow",
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	r, _ := newRegistryWith(t, 10, false, &recordingSink{}, store)
	ctx := context.Background()

	if err := r.PublishClick(ctx, "fast", domain.Click{Target: &domain.Node{LocalName: "a"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- r.PublishClick(ctx, "slow", domain.Click{Target: &domain.Node{LocalName: "a"}})
	}()
	<-store.entered

	fastDone := make(chan error, 2)
	go func() {
		fastDone <- r.PublishWheel(ctx, "fast", []domain.RawEvent{{Magnitude: 1, Origin: "u"}})
	}()
	go func() {
		fastDone <- r.PublishError(ctx, "other", domain.ClientError{Message: "boom"})
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-fastDone:
			if err != nil {
				t.Fatalf("publish: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatalf("ingest blocked behind a slow experiment store")
		}
	}

	close(store.release)
	if err := <-slowDone; err != nil {
		t.Fatalf("slow publish: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", r.Len())
	}
}
