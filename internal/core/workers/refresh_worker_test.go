package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

type fakeLister struct {
	mu        sync.Mutex
	favorites map[string][]string
	err       error
}

func (f *fakeLister) ListFavorites(ctx context.Context, id domain.Identity) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.favorites[id.AccountID], nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	batches [][]string
}

func (f *fakeFetcher) FetchSnapshots(ctx context.Context, cities []string, units domain.Units) []domain.FavoriteSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), cities...))

	snapshots := make([]domain.FavoriteSnapshot, 0, len(cities))
	for _, city := range cities {
		snapshots = append(snapshots, domain.FavoriteSnapshot{City: city})
	}
	return snapshots
}

func (f *fakeFetcher) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func TestRefreshWorker_ProcessesJobs(t *testing.T) {
	lister := &fakeLister{favorites: map[string][]string{
		"": {"London", "Paris"},
	}}
	fetcher := &fakeFetcher{}

	worker := NewRefreshWorker(lister, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	worker.Enqueue(RefreshJob{Identity: domain.Guest, Units: domain.UnitsMetric})

	assert.Eventually(t, func() bool {
		return fetcher.batchCount() == 1
	}, time.Second, 5*time.Millisecond)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Equal(t, []string{"London", "Paris"}, fetcher.batches[0])
}

func TestRefreshWorker_SkipsEmptyFavorites(t *testing.T) {
	lister := &fakeLister{favorites: map[string][]string{}}
	fetcher := &fakeFetcher{}

	worker := NewRefreshWorker(lister, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	worker.Enqueue(RefreshJob{Identity: domain.Guest, Units: domain.UnitsMetric})

	// Give the worker a moment; no batch should be fetched.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, fetcher.batchCount())
}

func TestRefreshWorker_ListerErrorDoesNotStopWorker(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	fetcher := &fakeFetcher{}

	worker := NewRefreshWorker(lister, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	worker.Enqueue(RefreshJob{Identity: domain.Guest, Units: domain.UnitsMetric})
	time.Sleep(50 * time.Millisecond)

	// The failing job is dropped and a later healthy one still runs.
	lister.mu.Lock()
	lister.err = nil
	lister.favorites = map[string][]string{"": {"Oslo"}}
	lister.mu.Unlock()

	worker.Enqueue(RefreshJob{Identity: domain.Guest, Units: domain.UnitsMetric})

	assert.Eventually(t, func() bool {
		return fetcher.batchCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshWorker_EnqueueDropsWhenFull(t *testing.T) {
	lister := &fakeLister{favorites: map[string][]string{}}
	fetcher := &fakeFetcher{}

	// Never started: the channel fills up and further jobs are dropped
	// without blocking the caller.
	worker := NewRefreshWorker(lister, fetcher)

	for i := 0; i < 100; i++ {
		worker.Enqueue(RefreshJob{Identity: domain.Guest, Units: domain.UnitsMetric})
	}
}
