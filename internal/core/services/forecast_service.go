package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/skycastapp/skycast/internal/core/domain"
)

// ErrSuperseded reports that a newer refresh was issued while this one
// was in flight; the stale result has been discarded.
var ErrSuperseded = errors.New("forecast request superseded")

const defaultFetchTimeout = 10 * time.Second

// ForecastService fetches and normalizes the forecast for a single city.
// Refresh keeps only the newest in-flight request: older ones are
// cancelled and their results never reach Latest, so the published view
// cannot go backwards in time.
type ForecastService struct {
	provider domain.WeatherProvider
	timeout  time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	latest *domain.Forecast
}

func NewForecastService(provider domain.WeatherProvider) *ForecastService {
	return &ForecastService{
		provider: provider,
		timeout:  defaultFetchTimeout,
	}
}

// Forecast fetches the series and normalizes it. It does not touch the
// published Latest view.
func (s *ForecastService) Forecast(ctx context.Context, city string, units domain.Units, opts domain.NormalizeOptions) (*domain.Forecast, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resolved, samples, err := s.provider.FetchForecast(ctx, city, units)
	if err != nil {
		return nil, err
	}

	return domain.NormalizeForecast(resolved, samples, units, opts)
}

// Refresh fetches like Forecast but also publishes the result, unless a
// newer Refresh started meanwhile, in which case the stale result is
// dropped and ErrSuperseded returned.
func (s *ForecastService) Refresh(ctx context.Context, city string, units domain.Units, opts domain.NormalizeOptions) (*domain.Forecast, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	forecast, err := s.Forecast(fetchCtx, city, units, opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	s.latest = forecast
	return forecast, nil
}

// Latest returns the most recently published forecast, or nil.
func (s *ForecastService) Latest() *domain.Forecast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
