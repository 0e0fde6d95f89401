package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/service"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubSearch struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
	order *[]string
}

func (s *stubSearch) Run(ctx context.Context) (*service.RunResult, []domain.Post, error) {
	s.mu.Lock()
	s.calls++
	if s.order != nil {
		*s.order = append(*s.order, "search")
	}
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return &service.RunResult{Kind: "search", Attempted: 6}, nil, s.err
}

type stubStocks struct {
	mu      sync.Mutex
	symbols [][]string
	err     error
	order   *[]string
}

func (s *stubStocks) RunBatch(ctx context.Context, symbols []string) (*service.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols = append(s.symbols, symbols)
	if s.order != nil {
		*s.order = append(*s.order, "stocks")
	}
	return &service.RunResult{Kind: "stocks", Attempted: len(symbols)}, s.err
}

func (s *stubStocks) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.symbols)
}

func TestNewRefreshJobRejectsBadSchedule(t *testing.T) {
	if _, err := NewRefreshJob(testTracer, &stubSearch{}, &stubStocks{}, "every tuesday"); err == nil {
		t.Fatal("expected schedule parse error")
	}
	if _, err := NewRefreshJob(testTracer, &stubSearch{}, &stubStocks{}, "0 6 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewRefreshJob(testTracer, &stubSearch{}, &stubStocks{}, "@daily"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshRunsSearchThenStocks(t *testing.T) {
	var order []string
	search := &stubSearch{order: &order}
	stocks := &stubStocks{order: &order}
	j, err := NewRefreshJob(testTracer, search, stocks, "@daily")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runs, err := j.Refresh(context.Background(), []string{"AAPL"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 || runs[0].Kind != "search" || runs[1].Kind != "stocks" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if len(order) != 2 || order[0] != "search" || order[1] != "stocks" {
		t.Fatalf("unexpected order: %v", order)
	}
	if len(stocks.symbols[0]) != 1 || stocks.symbols[0][0] != "AAPL" {
		t.Fatalf("unexpected symbols: %v", stocks.symbols)
	}
}

func TestRefreshSkipsSearch(t *testing.T) {
	search := &stubSearch{}
	stocks := &stubStocks{}
	j, _ := NewRefreshJob(testTracer, search, stocks, "@daily")

	runs, err := j.Refresh(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.calls != 0 || len(runs) != 1 {
		t.Fatalf("expected stocks-only refresh, got search calls=%d runs=%d", search.calls, len(runs))
	}
}

func TestRefreshSearchFailureStopsBeforeStocks(t *testing.T) {
	search := &stubSearch{err: errors.New("save recommendations: disk full")}
	stocks := &stubStocks{}
	j, _ := NewRefreshJob(testTracer, search, stocks, "@daily")

	runs, err := j.Refresh(context.Background(), nil, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(runs) != 1 || stocks.callCount() != 0 {
		t.Fatalf("stocks should not run after a failed search: runs=%d stocks=%d", len(runs), stocks.callCount())
	}
}

func TestRefreshStocksFailure(t *testing.T) {
	j, _ := NewRefreshJob(testTracer, &stubSearch{}, &stubStocks{err: context.Canceled}, "@daily")

	runs, err := j.Refresh(context.Background(), nil, true)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped cancel, got %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected both partial runs, got %d", len(runs))
	}
}

func TestRefreshRejectsConcurrentRun(t *testing.T) {
	search := &stubSearch{block: make(chan struct{})}
	j, _ := NewRefreshJob(testTracer, search, &stubStocks{}, "@daily")

	done := make(chan error, 1)
	go func() {
		_, err := j.Refresh(context.Background(), nil, true)
		done <- err
	}()

	eventually(t, func() bool {
		search.mu.Lock()
		defer search.mu.Unlock()
		return search.calls == 1
	})

	if _, err := j.Refresh(context.Background(), nil, true); !errors.Is(err, service.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(search.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := j.Refresh(context.Background(), nil, false); err != nil {
		t.Fatalf("job should be free again: %v", err)
	}
}

func TestRunScheduledUsesConfiguredBatch(t *testing.T) {
	stocks := &stubStocks{}
	j, _ := NewRefreshJob(testTracer, &stubSearch{}, stocks, "@daily")

	j.runScheduled(context.Background())

	if stocks.callCount() != 1 || stocks.symbols[0] != nil {
		t.Fatalf("expected one run over the configured batch, got %v", stocks.symbols)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	t.Parallel()

	j, _ := NewRefreshJob(testTracer, &stubSearch{}, &stubStocks{}, "@yearly")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
