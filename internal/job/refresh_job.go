package job

import (
	"context"
	"fmt"
	"log"
	"sync"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/service"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SearchRunner interface {
	Run(ctx context.Context) (*service.RunResult, []domain.Post, error)
}

type StockBatchRunner interface {
	RunBatch(ctx context.Context, symbols []string) (*service.RunResult, error)
}

// RefreshJob re-runs the search batch followed by the stock batch on a cron
// schedule. Only one refresh runs at a time, whether scheduled or requested.
type RefreshJob struct {
	tracer   trace.Tracer
	search   SearchRunner
	stocks   StockBatchRunner
	schedule cron.Schedule
	spec     string

	mu      sync.Mutex
	running bool
}

// NewRefreshJob validates spec as a standard five-field cron expression or a
// descriptor such as "@daily".
func NewRefreshJob(tracer trace.Tracer, search SearchRunner, stocks StockBatchRunner, spec string) (*RefreshJob, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	return &RefreshJob{
		tracer:   tracer,
		search:   search,
		stocks:   stocks,
		schedule: schedule,
		spec:     spec,
	}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for an in-flight
// refresh to finish.
func (j *RefreshJob) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(j.schedule, cron.FuncJob(func() { j.runScheduled(ctx) }))
	c.Start()
	log.Printf("Refresh job scheduled (%s)", j.spec)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("Refresh job stopped")
}

func (j *RefreshJob) runScheduled(ctx context.Context) {
	runs, err := j.Refresh(ctx, nil, true)
	if err != nil {
		log.Printf("Scheduled refresh error: %v", err)
		return
	}
	for _, run := range runs {
		log.Printf(
			"Scheduled %s run %s complete attempted=%d succeeded=%d records=%d warnings=%d",
			run.Kind, run.RunID, run.Attempted, run.Succeeded, run.Records, len(run.Errors),
		)
	}
}

// Refresh runs the search batch when search is set, then the stock batch for
// symbols (the configured batch when empty). It returns
// service.ErrRunInProgress if another refresh holds the job.
func (j *RefreshJob) Refresh(ctx context.Context, symbols []string, search bool) ([]*service.RunResult, error) {
	if !j.acquire() {
		return nil, service.ErrRunInProgress
	}
	defer j.release()

	ctx, span := j.tracer.Start(ctx, "refresh-job.refresh")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("search", search),
		attribute.StringSlice("symbols", symbols),
	)

	runs := make([]*service.RunResult, 0, 2)
	if search {
		result, _, err := j.search.Run(ctx)
		if result != nil {
			runs = append(runs, result)
		}
		if err != nil {
			span.RecordError(err)
			return runs, fmt.Errorf("search: %w", err)
		}
	}

	result, err := j.stocks.RunBatch(ctx, symbols)
	if result != nil {
		runs = append(runs, result)
	}
	if err != nil {
		span.RecordError(err)
		return runs, fmt.Errorf("stocks: %w", err)
	}
	return runs, nil
}

func (j *RefreshJob) acquire() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return false
	}
	j.running = true
	return true
}

func (j *RefreshJob) release() {
	j.mu.Lock()
	j.running = false
	j.mu.Unlock()
}
