package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"themerr/internal/database"
	"themerr/internal/logging"
	"themerr/internal/report"
)

// DefaultWorkers is the pool size used when the config does not override it.
const DefaultWorkers = 10

// Result is one successfully refreshed item.
type Result struct {
	Task   Task
	Record database.Record
}

// Pipeline drives a fixed worker pool over enqueued tasks. A failing task is
// reported and logged but never stops the pool; aggregation reads results
// only after Drain returns.
type Pipeline struct {
	resolver *Resolver
	reporter *report.Writer
	logger   *slog.Logger
	workers  int
	runID    string

	tasks chan Task
	group *errgroup.Group

	mu      sync.Mutex
	results map[string][]Result
	failed  int
}

// New constructs a Pipeline. A non-positive worker count falls back to
// DefaultWorkers.
func New(resolver *Resolver, reporter *report.Writer, logger *slog.Logger, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	runID := uuid.NewString()
	return &Pipeline{
		resolver: resolver,
		reporter: reporter,
		logger:   logging.NewComponentLogger(logger, "pipeline").With(logging.String(logging.FieldRunID, runID)),
		workers:  workers,
		runID:    runID,
		tasks:    make(chan Task, workers*4),
		results:  map[string][]Result{},
	}
}

// RunID identifies this pipeline run in logs.
func (p *Pipeline) RunID() string { return p.runID }

// Start launches the worker pool. Call exactly once before Enqueue.
func (p *Pipeline) Start(ctx context.Context) {
	p.group, ctx = errgroup.WithContext(ctx)
	p.logger.Info("pipeline started", logging.Int("workers", p.workers))
	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			for task := range p.tasks {
				p.process(ctx, task)
			}
			return nil
		})
	}
}

// Enqueue submits a task to the pool. Blocks when the queue is full.
func (p *Pipeline) Enqueue(task Task) {
	p.tasks <- task
}

// Drain closes the queue and waits for every in-flight task. After it
// returns, Results is stable.
func (p *Pipeline) Drain() error {
	close(p.tasks)
	err := p.group.Wait()
	p.mu.Lock()
	failed := p.failed
	p.mu.Unlock()
	p.logger.Info("pipeline drained", logging.Int("failed", failed))
	return err
}

// Results returns the successful results for one category.
func (p *Pipeline) Results(categoryName string) []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results[categoryName]
}

// Failed reports how many tasks ended in error.
func (p *Pipeline) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *Pipeline) process(ctx context.Context, task Task) {
	record, _, err := p.resolver.Process(ctx, task)
	if err != nil {
		p.logger.Error("task failed",
			logging.String(logging.FieldCategory, task.Category.Name),
			logging.String("key", task.Key),
			logging.Error(err),
		)
		if p.reporter != nil {
			p.reporter.WriteIncident(task.Category.Name, err)
		}
		p.mu.Lock()
		p.failed++
		p.mu.Unlock()
		return
	}

	p.mu.Lock()
	p.results[task.Category.Name] = append(p.results[task.Category.Name], Result{Task: task, Record: record})
	p.mu.Unlock()
}
