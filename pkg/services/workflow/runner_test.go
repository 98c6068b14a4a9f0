package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req report.Request) (*domain.Report, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*domain.Report)
	return r, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, r *domain.Report) error {
	return m.Called(ctx, r).Error(0)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) ObserveBatchItem(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[outcome]++
}

type fakeLock struct {
	locker *memoryLocker
	key    string
}

func (l fakeLock) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	return nil
}

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
	keys []string
}

func (m *memoryLocker) Obtain(_ context.Context, key string, _ time.Duration) (Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	if m.held[key] {
		return nil, ErrLocked
	}
	m.held[key] = true
	return fakeLock{locker: m, key: key}, nil
}

var (
	batchStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	batchEnd   = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
)

func newBatch(ids ...string) Batch {
	return Batch{
		BusinessIDs: ids,
		Start:       batchStart,
		End:         batchEnd,
		PeriodType:  domain.PeriodTypeMonth,
		Kind:        domain.ReportKindMonthly,
	}
}

func forBusiness(id string) interface{} {
	return mock.MatchedBy(func(req report.Request) bool { return req.BusinessID == id })
}

func TestRunner_MixedOutcomes(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, forBusiness("b1")).
		Return(&domain.Report{ID: "r1", Status: domain.ReportStatusCompleted}, nil)
	gen.On("Generate", mock.Anything, forBusiness("b2")).
		Return(&domain.Report{ID: "r2", Status: domain.ReportStatusFailed}, errors.New("boom"))

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool { return r.ID == "r1" })).Return(nil)

	locker := &memoryLocker{held: map[string]bool{
		"pulse:lock:b3:2025-03-01:2025-03-31": true,
	}}
	rec := &countingRecorder{}

	r := NewRunner(newBatch("b1", "b2", "b3"), gen, locker, pub, rec, RunnerConfig{Concurrency: 2, LockTTL: time.Minute})
	r.Run(context.Background())

	results := r.Results()
	require.Len(t, results, 3)
	assert.Equal(t, ItemResult{BusinessID: "b1", ReportID: "r1", Outcome: OutcomeCompleted, Published: true}, results[0])
	assert.Equal(t, ItemResult{BusinessID: "b2", ReportID: "r2", Outcome: OutcomeFailed, Error: "boom"}, results[1])
	assert.Equal(t, ItemResult{BusinessID: "b3", Outcome: OutcomeSkipped}, results[2])

	assert.Equal(t, map[string]int{"completed": 1, "failed": 1, "skipped": 1}, rec.counts)
	gen.AssertNumberOfCalls(t, "Generate", 2)
	pub.AssertExpectations(t)

	// Locks taken by the run are released again.
	assert.Equal(t, map[string]bool{"pulse:lock:b3:2025-03-01:2025-03-31": true}, locker.held)
}

func TestRunner_ProgressAndDone(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&domain.Report{ID: "r"}, nil)

	r := NewRunner(newBatch("a", "b", "c"), gen, nil, nil, nil, RunnerConfig{})
	go r.Run(context.Background())

	var last RunnerProgress
	count := 0
	for p := range r.Progress() {
		count++
		last = p
	}
	<-r.Done()

	assert.Equal(t, 3, count)
	assert.Equal(t, 3, last.Processed)
	assert.Equal(t, 3, last.Total)
}

func TestRunner_PublishFailureKeepsCompleted(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&domain.Report{ID: "r1"}, nil)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bucket missing"))

	r := NewRunner(newBatch("b1"), gen, nil, pub, nil, DefaultRunnerConfig())
	r.Run(context.Background())

	assert.Equal(t, []ItemResult{{
		BusinessID: "b1",
		ReportID:   "r1",
		Outcome:    OutcomeCompleted,
		Error:      "bucket missing",
	}}, r.Results())
}

func TestRunner_PassesBatchPeriod(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, report.Request{
		BusinessID: "b1",
		Start:      batchStart,
		End:        batchEnd,
		PeriodType: domain.PeriodTypeMonth,
		Kind:       domain.ReportKindMonthly,
	}).Return(&domain.Report{ID: "r1"}, nil)

	r := NewRunner(newBatch("b1"), gen, nil, nil, nil, DefaultRunnerConfig())
	r.Run(context.Background())

	gen.AssertExpectations(t)
}

func TestController_StartStatusCancel(t *testing.T) {
	release := make(chan struct{})
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(&domain.Report{ID: "r1"}, nil)

	ctrl := NewController(gen, nil, nil, nil, RunnerConfig{Concurrency: 1})

	_, err := ctrl.Start(context.Background(), Batch{})
	require.Error(t, err)

	id, err := ctrl.Start(context.Background(), newBatch("b1"))
	require.NoError(t, err)

	status, err := ctrl.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, status.ID)

	close(release)
	assert.Eventually(t, func() bool {
		s, _ := ctrl.Status(context.Background(), id)
		return !s.Running
	}, time.Second, 10*time.Millisecond)

	status, err = ctrl.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, status.Results[0].Outcome)
	require.NoError(t, ctrl.Cancel(context.Background(), id))

	_, err = ctrl.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)
	assert.ErrorIs(t, ctrl.Cancel(context.Background(), "missing"), ErrBatchNotFound)
}
