package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
	"github.com/stretchr/testify/assert"
)

// fakeProvider serves canned samples per city and can fail selectively.
type fakeProvider struct {
	mu       sync.Mutex
	samples  map[string]domain.RawSample
	failing  map[string]error
	inFlight int
	peak     int

	// release, when set, blocks every call until closed.
	release chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		samples: make(map[string]domain.RawSample),
		failing: make(map[string]error),
	}
}

func (f *fakeProvider) serve(city string, sample domain.RawSample) {
	f.samples[strings.ToLower(city)] = sample
}

func (f *fakeProvider) fail(city string, err error) {
	f.failing[strings.ToLower(city)] = err
}

func (f *fakeProvider) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeProvider) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeProvider) FetchCurrent(ctx context.Context, city string, units domain.Units) (domain.City, domain.RawSample, error) {
	f.enter()
	defer f.leave()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return domain.City{}, domain.RawSample{}, ctx.Err()
		}
	}

	key := strings.ToLower(city)
	if err, ok := f.failing[key]; ok {
		return domain.City{}, domain.RawSample{}, err
	}
	sample, ok := f.samples[key]
	if !ok {
		return domain.City{}, domain.RawSample{}, domain.ErrCityNotFound
	}
	return domain.City{Name: city}, sample, nil
}

func (f *fakeProvider) FetchForecast(ctx context.Context, city string, units domain.Units) (domain.City, []domain.RawSample, error) {
	resolved, sample, err := f.FetchCurrent(ctx, city, units)
	if err != nil {
		return domain.City{}, nil, err
	}
	return resolved, []domain.RawSample{sample}, nil
}

func TestSnapshotService_EmptyInput(t *testing.T) {
	svc := services.NewSnapshotService(newFakeProvider())

	snapshots := svc.FetchSnapshots(context.Background(), nil, domain.UnitsMetric)
	assert.Empty(t, snapshots)
}

func TestSnapshotService_PreservesInputOrder(t *testing.T) {
	provider := newFakeProvider()
	provider.serve("London", domain.RawSample{Temp: 11.5, Condition: "Rain", Icon: "10d"})
	provider.serve("Paris", domain.RawSample{Temp: 14.2, Condition: "Clear", Icon: "01d"})
	provider.serve("Oslo", domain.RawSample{Temp: -2.8, Condition: "Snow", Icon: "13d"})

	svc := services.NewSnapshotService(provider)

	snapshots := svc.FetchSnapshots(context.Background(), []string{"London", "Paris", "Oslo"}, domain.UnitsMetric)
	assert.Len(t, snapshots, 3)
	assert.Equal(t, "London", snapshots[0].City)
	assert.Equal(t, "Paris", snapshots[1].City)
	assert.Equal(t, "Oslo", snapshots[2].City)
	assert.Equal(t, "11°", snapshots[0].Temp)
	assert.Equal(t, "-2°", snapshots[2].Temp)
}

func TestSnapshotService_OmitsFailedCities(t *testing.T) {
	provider := newFakeProvider()
	provider.serve("London", domain.RawSample{Temp: 11.5, Condition: "Rain", Icon: "10d"})
	provider.fail("Paris", domain.ErrProviderUnavailable)
	provider.serve("Oslo", domain.RawSample{Temp: -2.8, Condition: "Snow", Icon: "13d"})

	svc := services.NewSnapshotService(provider)

	snapshots := svc.FetchSnapshots(context.Background(), []string{"London", "Paris", "Oslo"}, domain.UnitsMetric)
	assert.Len(t, snapshots, 2)
	assert.Equal(t, "London", snapshots[0].City)
	assert.Equal(t, "Oslo", snapshots[1].City)
}

func TestSnapshotService_BoundedConcurrency(t *testing.T) {
	provider := newFakeProvider()
	provider.release = make(chan struct{})

	cities := make([]string, 12)
	for i := range cities {
		name := string(rune('A' + i))
		cities[i] = name
		provider.serve(name, domain.RawSample{Temp: 20, Condition: "Clear", Icon: "01d"})
	}

	svc := services.NewSnapshotService(provider)

	done := make(chan []domain.FavoriteSnapshot, 1)
	go func() {
		done <- svc.FetchSnapshots(context.Background(), cities, domain.UnitsMetric)
	}()

	// Let the workers saturate the semaphore, then release them.
	assert.Eventually(t, func() bool {
		provider.mu.Lock()
		defer provider.mu.Unlock()
		return provider.inFlight == 4
	}, time.Second, 5*time.Millisecond)

	close(provider.release)
	snapshots := <-done

	assert.Len(t, snapshots, 12)

	provider.mu.Lock()
	peak := provider.peak
	provider.mu.Unlock()
	assert.LessOrEqual(t, peak, 4)
}
