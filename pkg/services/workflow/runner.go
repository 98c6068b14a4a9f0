package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Generator interface {
	Generate(ctx context.Context, req report.Request) (*domain.Report, error)
}

// Publisher ships a completed report somewhere outside the database.
type Publisher interface {
	Publish(ctx context.Context, r *domain.Report) error
}

type Recorder interface {
	ObserveBatchItem(outcome string)
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Batch asks for one report per business over the same period.
type Batch struct {
	BusinessIDs []string
	Start       time.Time
	End         time.Time
	PeriodType  domain.PeriodType
	Kind        domain.ReportKind
}

type ItemResult struct {
	BusinessID string  `json:"business_id"`
	ReportID   string  `json:"report_id,omitempty"`
	Outcome    Outcome `json:"outcome"`
	Error      string  `json:"error,omitempty"`
	Published  bool    `json:"published"`
}

type RunnerConfig struct {
	Concurrency int
	LockTTL     time.Duration
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Concurrency: 4,
		LockTTL:     5 * time.Minute,
	}
}

type RunnerProgress struct {
	Processed int
	Total     int
	Last      ItemResult
}

// Runner generates the reports of one batch. A failing business never
// aborts the others.
type Runner struct {
	batch     Batch
	generator Generator
	locker    Locker
	publisher Publisher
	recorder  Recorder
	config    RunnerConfig

	done     chan struct{}
	progress chan RunnerProgress

	mu        sync.Mutex
	results   []ItemResult
	processed int
}

// NewRunner accepts nil locker, publisher and recorder.
func NewRunner(batch Batch, generator Generator, locker Locker, publisher Publisher, recorder Recorder, config RunnerConfig) *Runner {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Runner{
		batch:     batch,
		generator: generator,
		locker:    locker,
		publisher: publisher,
		recorder:  recorder,
		config:    config,
		done:      make(chan struct{}),
		progress:  make(chan RunnerProgress, len(batch.BusinessIDs)),
		results:   make([]ItemResult, len(batch.BusinessIDs)),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Results returns a snapshot; items not yet processed have an empty outcome.
func (r *Runner) Results() []ItemResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ItemResult(nil), r.results...)
}

func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	defer close(r.progress)

	logger := zerolog.Ctx(ctx).With().Int("businesses", len(r.batch.BusinessIDs)).Logger()
	logger.Info().Msg("batch started")

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)
	for i, id := range r.batch.BusinessIDs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.record(i, r.process(gCtx, id))
			return nil
		})
	}
	_ = g.Wait()

	logger.Info().Int("processed", r.processed).Msg("batch finished")
}

func (r *Runner) record(i int, res ItemResult) {
	r.mu.Lock()
	r.results[i] = res
	r.processed++
	p := RunnerProgress{Processed: r.processed, Total: len(r.results), Last: res}
	r.mu.Unlock()

	if r.recorder != nil {
		r.recorder.ObserveBatchItem(string(res.Outcome))
	}
	r.progress <- p
}

func (r *Runner) lockKey(businessID string) string {
	return fmt.Sprintf("pulse:lock:%s:%s:%s", businessID,
		r.batch.Start.Format(time.DateOnly), r.batch.End.Format(time.DateOnly))
}

func (r *Runner) process(ctx context.Context, businessID string) ItemResult {
	logger := zerolog.Ctx(ctx).With().Str("business_id", businessID).Logger()
	res := ItemResult{BusinessID: businessID}

	if r.locker != nil {
		lock, err := r.locker.Obtain(ctx, r.lockKey(businessID), r.config.LockTTL)
		if errors.Is(err, ErrLocked) {
			logger.Info().Msg("report already being generated elsewhere, skipping")
			res.Outcome = OutcomeSkipped
			return res
		}
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			return res
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn().Err(err).Msg("failed to release lock")
			}
		}()
	}

	rep, err := r.generator.Generate(ctx, report.Request{
		BusinessID: businessID,
		Start:      r.batch.Start,
		End:        r.batch.End,
		PeriodType: r.batch.PeriodType,
		Kind:       r.batch.Kind,
	})
	if rep != nil {
		res.ReportID = rep.ID
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		return res
	}
	res.Outcome = OutcomeCompleted

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, rep); err != nil {
			logger.Error().Err(err).Str("report_id", rep.ID).Msg("failed to publish report")
			res.Error = err.Error()
		} else {
			res.Published = true
		}
	}
	return res
}
