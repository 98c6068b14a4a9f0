package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrBatchNotFound = errors.New("batch not found")

type Controller interface {
	Start(ctx context.Context, batch Batch) (string, error)
	Cancel(ctx context.Context, id string) error
	Status(ctx context.Context, id string) (BatchStatus, error)
}

type BatchStatus struct {
	ID      string       `json:"id"`
	Running bool         `json:"running"`
	Results []ItemResult `json:"results"`
}

type batchDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
}

// DefaultController runs batches in the background and keeps finished ones
// around for status queries until the process exits.
type DefaultController struct {
	generator Generator
	locker    Locker
	publisher Publisher
	recorder  Recorder
	config    RunnerConfig

	mu      sync.Mutex
	batches map[string]batchDescriptor
}

func NewController(generator Generator, locker Locker, publisher Publisher, recorder Recorder, config RunnerConfig) *DefaultController {
	return &DefaultController{
		generator: generator,
		locker:    locker,
		publisher: publisher,
		recorder:  recorder,
		config:    config,
		batches:   make(map[string]batchDescriptor),
	}
}

func (ctrl *DefaultController) Start(ctx context.Context, batch Batch) (string, error) {
	if len(batch.BusinessIDs) == 0 {
		return "", fmt.Errorf("batch has no businesses")
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	id := uuid.NewString()
	// The batch outlives the request that started it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	runner := NewRunner(batch, ctrl.generator, ctrl.locker, ctrl.publisher, ctrl.recorder, ctrl.config)
	ctrl.batches[id] = batchDescriptor{cancelFunc: cancel, runner: runner}

	go runner.Run(runCtx)
	return id, nil
}

func (ctrl *DefaultController) Cancel(_ context.Context, id string) error {
	ctrl.mu.Lock()
	desc, ok := ctrl.batches[id]
	ctrl.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}

	desc.cancelFunc()
	<-desc.runner.Done()
	return nil
}

func (ctrl *DefaultController) Status(_ context.Context, id string) (BatchStatus, error) {
	ctrl.mu.Lock()
	desc, ok := ctrl.batches[id]
	ctrl.mu.Unlock()
	if !ok {
		return BatchStatus{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}

	running := true
	select {
	case <-desc.runner.Done():
		running = false
	default:
	}
	return BatchStatus{ID: id, Running: running, Results: desc.runner.Results()}, nil
}
