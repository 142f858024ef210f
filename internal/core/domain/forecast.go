package domain

import (
	"fmt"
	"time"
)

// HourlyWindowSize is the number of leading samples projected into the
// hourly strip. Shorter series produce a shorter strip.
const HourlyWindowSize = 8

// DefaultForecastDays caps the daily aggregate list.
const DefaultForecastDays = 7

// CurrentConditions is the display projection of the first sample of a
// series.
type CurrentConditions struct {
	Temp          string `json:"temp"`
	FeelsLike     string `json:"feels_like"`
	Humidity      string `json:"humidity"`
	WindSpeed     string `json:"wind_speed"`
	Condition     string `json:"condition"`
	Icon          string `json:"icon"`
	BackgroundKey string `json:"background_key"`
}

type HourlyEntry struct {
	Time string `json:"time"`
	Temp string `json:"temp"`
	Icon string `json:"icon"`
}

// DailyAggregate is the reduced summary for one UTC calendar date.
type DailyAggregate struct {
	Date      time.Time `json:"date"`
	Day       string    `json:"day"`
	MinTemp   string    `json:"min_temp"`
	MaxTemp   string    `json:"max_temp"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
}

// FavoriteSnapshot is the quick-glance result for one favorite city.
type FavoriteSnapshot struct {
	City          string `json:"city"`
	Temp          string `json:"temp"`
	Condition     string `json:"condition"`
	BackgroundKey string `json:"background_key"`
}

// Forecast is the normalized multi-view result for a single city.
type Forecast struct {
	City    City              `json:"city"`
	Units   Units             `json:"units"`
	Current CurrentConditions `json:"current"`
	Hourly  []HourlyEntry     `json:"hourly"`
	Daily   []DailyAggregate  `json:"daily"`
}

// NormalizeOptions controls daily aggregation. SkipToday drops the series'
// leading (usually partial) calendar-date group; source behaviour differs
// between forecast views, so this is a caller decision.
type NormalizeOptions struct {
	SkipToday bool
	MaxDays   int
}

// NormalizeForecast turns a chronological sample series into current
// conditions, the hourly strip, and daily aggregates.
func NormalizeForecast(city City, samples []RawSample, units Units, opts NormalizeOptions) (*Forecast, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyForecast
	}

	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = DefaultForecastDays
	}

	return &Forecast{
		City:    city,
		Units:   units,
		Current: ProjectCurrent(samples[0], units),
		Hourly:  projectHourly(samples),
		Daily:   aggregateDaily(samples, opts.SkipToday, maxDays),
	}, nil
}

// ProjectCurrent builds the display projection of a single sample.
func ProjectCurrent(s RawSample, units Units) CurrentConditions {
	return CurrentConditions{
		Temp:          formatWithSuffix(s.Temp, units.TempSuffix()),
		FeelsLike:     FormatTemp(s.FeelsLike),
		Humidity:      formatHumidity(s.Humidity),
		WindSpeed:     formatWind(s.WindSpeed, units),
		Condition:     s.Condition,
		Icon:          IconKey(s.Condition),
		BackgroundKey: BackgroundKey(s.Condition, s.Icon),
	}
}

func projectHourly(samples []RawSample) []HourlyEntry {
	n := HourlyWindowSize
	if len(samples) < n {
		n = len(samples)
	}

	entries := make([]HourlyEntry, 0, n)
	for _, s := range samples[:n] {
		entries = append(entries, HourlyEntry{
			Time: s.Timestamp.UTC().Format("15:04"),
			Temp: FormatTemp(s.Temp),
			Icon: IconKey(s.Condition),
		})
	}
	return entries
}

// aggregateDaily groups samples by UTC calendar date, in order of first
// occurrence. Each group reduces to the true min/max of its samples'
// TempMin/TempMax and the condition of its midpoint element.
func aggregateDaily(samples []RawSample, skipToday bool, maxDays int) []DailyAggregate {
	var order []string
	groups := make(map[string][]RawSample)

	for _, s := range samples {
		key := s.Timestamp.UTC().Format("2006-01-02")
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	if skipToday && len(order) > 0 {
		order = order[1:]
	}
	if len(order) > maxDays {
		order = order[:maxDays]
	}

	daily := make([]DailyAggregate, 0, len(order))
	for _, key := range order {
		group := groups[key]

		minTemp := group[0].TempMin
		maxTemp := group[0].TempMax
		for _, s := range group[1:] {
			if s.TempMin < minTemp {
				minTemp = s.TempMin
			}
			if s.TempMax > maxTemp {
				maxTemp = s.TempMax
			}
		}

		// The documented selection rule: the group's middle element
		// stands for the day, not the mode and not the first sample.
		rep := group[len(group)/2]

		date, _ := time.ParseInLocation("2006-01-02", key, time.UTC)

		daily = append(daily, DailyAggregate{
			Date:      date,
			Day:       date.Format("Mon"),
			MinTemp:   FormatTemp(minTemp),
			MaxTemp:   FormatTemp(maxTemp),
			Condition: rep.Condition,
			Icon:      IconKey(rep.Condition),
		})
	}

	return daily
}

// ProjectSnapshot builds the quick-glance favorite projection from a
// current-conditions sample.
func ProjectSnapshot(city City, s RawSample) FavoriteSnapshot {
	return FavoriteSnapshot{
		City:          city.Name,
		Temp:          FormatTemp(s.Temp),
		Condition:     s.Condition,
		BackgroundKey: BackgroundKey(s.Condition, s.Icon),
	}
}

func formatWithSuffix(t float64, suffix string) string {
	return fmt.Sprintf("%d%s", TruncateTemp(t), suffix)
}

func formatHumidity(h int) string {
	return fmt.Sprintf("%d%%", h)
}

func formatWind(speed float64, units Units) string {
	return fmt.Sprintf("%g %s", speed, units.SpeedSuffix())
}
