package domain

import (
	"context"
)

// WeatherProvider abstracts the external forecast source. City resolution
// is provider-side: the query is free text and the returned City carries
// the provider's canonical name.
type WeatherProvider interface {
	// FetchForecast returns the ordered forecast series for a city.
	// Unknown cities surface as ErrCityNotFound; transport and payload
	// faults as errors wrapping ErrProviderUnavailable.
	FetchForecast(ctx context.Context, city string, units Units) (City, []RawSample, error)

	// FetchCurrent is the lighter single-sample variant.
	FetchCurrent(ctx context.Context, city string, units Units) (City, RawSample, error)
}
