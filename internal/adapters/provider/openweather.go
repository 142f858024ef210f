package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient implements domain.WeatherProvider against the
// OpenWeatherMap forecast and current-conditions endpoints. A circuit
// breaker guards both; there are no automatic retries — failed requests
// surface to the caller, who may re-issue manually.
type OpenWeatherClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			// An unknown city is a user mistake, not provider health.
			return err == nil || errors.Is(err, domain.ErrCityNotFound)
		},
	})

	return &OpenWeatherClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		circuit: cb,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *OpenWeatherClient) WithBaseURL(baseURL string) *OpenWeatherClient {
	c.baseURL = baseURL
	return c
}

type forecastResponse struct {
	List []sampleItem `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

type currentResponse struct {
	sampleItem
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type sampleItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *OpenWeatherClient) FetchForecast(ctx context.Context, city string, units domain.Units) (domain.City, []domain.RawSample, error) {
	var payload forecastResponse
	if err := c.get(ctx, "/forecast", city, units, &payload); err != nil {
		return domain.City{}, nil, err
	}

	if payload.City.Name == "" || len(payload.List) == 0 {
		return domain.City{}, nil, fmt.Errorf("%w: forecast response missing city or series", domain.ErrMalformedPayload)
	}

	samples := make([]domain.RawSample, 0, len(payload.List))
	for _, item := range payload.List {
		sample, err := item.toSample()
		if err != nil {
			return domain.City{}, nil, err
		}
		samples = append(samples, sample)
	}

	resolved := domain.City{
		Name:    payload.City.Name,
		Country: payload.City.Country,
	}
	return resolved, samples, nil
}

func (c *OpenWeatherClient) FetchCurrent(ctx context.Context, city string, units domain.Units) (domain.City, domain.RawSample, error) {
	var payload currentResponse
	if err := c.get(ctx, "/weather", city, units, &payload); err != nil {
		return domain.City{}, domain.RawSample{}, err
	}

	if payload.Name == "" {
		return domain.City{}, domain.RawSample{}, fmt.Errorf("%w: current response missing city name", domain.ErrMalformedPayload)
	}

	sample, err := payload.sampleItem.toSample()
	if err != nil {
		return domain.City{}, domain.RawSample{}, err
	}

	resolved := domain.City{
		Name:    payload.Name,
		Country: payload.Sys.Country,
	}
	return resolved, sample, nil
}

func (i sampleItem) toSample() (domain.RawSample, error) {
	if len(i.Weather) == 0 {
		return domain.RawSample{}, fmt.Errorf("%w: sample missing weather block", domain.ErrMalformedPayload)
	}

	return domain.RawSample{
		Timestamp: time.Unix(i.Dt, 0).UTC(),
		Temp:      i.Main.Temp,
		FeelsLike: i.Main.FeelsLike,
		TempMin:   i.Main.TempMin,
		TempMax:   i.Main.TempMax,
		Humidity:  i.Main.Humidity,
		WindSpeed: i.Wind.Speed,
		Condition: i.Weather[0].Main,
		Icon:      i.Weather[0].Icon,
	}, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, path, city string, units domain.Units, out interface{}) error {
	values := url.Values{}
	values.Set("q", city)
	values.Set("units", string(units))
	values.Set("appid", c.apiKey)

	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrCityNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
		}

		var decoded json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		return decoded, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", domain.ErrProviderUnavailable)
		}
		if errors.Is(err, domain.ErrCityNotFound) || errors.Is(err, domain.ErrMalformedPayload) || errors.Is(err, domain.ErrProviderUnavailable) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	raw, ok := result.(json.RawMessage)
	if !ok {
		return fmt.Errorf("%w: unexpected circuit breaker result", domain.ErrProviderUnavailable)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	return nil
}
