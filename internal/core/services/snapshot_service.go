package services

import (
	"context"
	"log"
	"sync"

	"github.com/skycastapp/skycast/internal/core/domain"
)

// snapshotWorkers caps concurrent provider calls in a batch so a long
// favorites list cannot stampede the provider.
const snapshotWorkers = 4

// SnapshotService fetches quick-glance current conditions for a list of
// favorite cities.
type SnapshotService struct {
	provider domain.WeatherProvider
}

func NewSnapshotService(provider domain.WeatherProvider) *SnapshotService {
	return &SnapshotService{
		provider: provider,
	}
}

// FetchSnapshots resolves one snapshot per city, concurrently but with
// the output in input order. A city whose fetch fails is omitted from the
// result; one city's failure never affects another's.
func (s *SnapshotService) FetchSnapshots(ctx context.Context, cities []string, units domain.Units) []domain.FavoriteSnapshot {
	if len(cities) == 0 {
		return nil
	}

	slots := make([]*domain.FavoriteSnapshot, len(cities))

	var wg sync.WaitGroup
	sem := make(chan struct{}, snapshotWorkers)

	for i, city := range cities {
		wg.Add(1)
		go func(i int, city string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			resolved, sample, err := s.provider.FetchCurrent(ctx, city, units)
			if err != nil {
				log.Printf("snapshot fetch failed for %q: %v", city, err)
				return
			}

			snap := domain.ProjectSnapshot(resolved, sample)
			slots[i] = &snap
		}(i, city)
	}

	wg.Wait()

	snapshots := make([]domain.FavoriteSnapshot, 0, len(cities))
	for _, slot := range slots {
		if slot != nil {
			snapshots = append(snapshots, *slot)
		}
	}
	return snapshots
}
