package workers

import (
	"context"
	"log"

	"github.com/skycastapp/skycast/internal/core/domain"
)

type FavoritesLister interface {
	ListFavorites(ctx context.Context, id domain.Identity) ([]string, error)
}

type SnapshotFetcher interface {
	FetchSnapshots(ctx context.Context, cities []string, units domain.Units) []domain.FavoriteSnapshot
}

type RefreshJob struct {
	Identity domain.Identity
	Units    domain.Units
}

// RefreshWorker re-fetches favorite-city snapshots in the background,
// keeping the snapshot cache warm so the favorites view opens instantly.
type RefreshWorker struct {
	prefs     FavoritesLister
	snapshots SnapshotFetcher
	jobs      chan RefreshJob
}

func NewRefreshWorker(prefs FavoritesLister, snapshots SnapshotFetcher) *RefreshWorker {
	return &RefreshWorker{
		prefs:     prefs,
		snapshots: snapshots,
		jobs:      make(chan RefreshJob, 16),
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Snapshot refresh worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Snapshot refresh worker shutting down...")
				return
			}
		}
	}()
}

func (w *RefreshWorker) Enqueue(job RefreshJob) {
	select {
	case w.jobs <- job:
	default:
		log.Println("Snapshot refresh queue full! Dropping job")
	}
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	cities, err := w.prefs.ListFavorites(ctx, job.Identity)
	if err != nil {
		log.Printf("Worker Error listing favorites: %v", err)
		return
	}
	if len(cities) == 0 {
		return
	}

	snapshots := w.snapshots.FetchSnapshots(ctx, cities, job.Units)
	log.Printf("Refreshed %d of %d favorite snapshots", len(snapshots), len(cities))
}
