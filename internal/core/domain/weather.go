package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCityNotFound        = errors.New("city not found")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrMalformedPayload    = errors.New("malformed provider payload")
	ErrEmptyForecast       = errors.New("forecast series is empty")
)

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

func (u Units) TempSuffix() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

func (u Units) SpeedSuffix() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "km/h"
}

// RawSample is one timestamped entry of a provider forecast series. The
// provider is expected to have already converted values into the requested
// unit system.
type RawSample struct {
	Timestamp time.Time `json:"timestamp"`
	Temp      float64   `json:"temp"`
	FeelsLike float64   `json:"feels_like"`
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	Humidity  int       `json:"humidity"`
	WindSpeed float64   `json:"wind_speed"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
}

// City is the provider's canonical resolution of a free-text city query.
type City struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// TruncateTemp applies the display rounding rule: an integer cast, which
// truncates toward zero. 21.9 displays as 21, not 22.
func TruncateTemp(t float64) int {
	return int(t)
}

func FormatTemp(t float64) string {
	return fmt.Sprintf("%d°", TruncateTemp(t))
}

// Background keys selectable from a sample's condition and icon code.
const (
	BackgroundNight  = "night"
	BackgroundCloudy = "cloudy"
	BackgroundRainy  = "rainy"
	BackgroundSnowy  = "snowy"
	BackgroundSunny  = "sunny"
)

// Icon keys used for condition glyphs.
const (
	IconCloudy = "cloudy"
	IconRain   = "rain"
	IconSnow   = "snow"
	IconSun    = "sun"
)

// BackgroundKey maps a condition group and provider icon code to a
// background key. A night icon code always wins over the condition.
func BackgroundKey(condition, icon string) string {
	if strings.Contains(icon, "n") {
		return BackgroundNight
	}
	switch condition {
	case "Clouds", "Mist", "Fog":
		return BackgroundCloudy
	case "Rain", "Drizzle", "Thunderstorm":
		return BackgroundRainy
	case "Snow":
		return BackgroundSnowy
	default:
		return BackgroundSunny
	}
}

// IconKey maps a condition group to its glyph key.
func IconKey(condition string) string {
	switch condition {
	case "Clouds", "Mist", "Fog":
		return IconCloudy
	case "Rain", "Drizzle", "Thunderstorm":
		return IconRain
	case "Snow":
		return IconSnow
	default:
		return IconSun
	}
}
