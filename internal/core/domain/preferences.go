package domain

// Preferences is the per-identity settings record. One instance exists per
// account and one for the implicit guest identity.
type Preferences struct {
	DefaultCity string `json:"default_city"`
	Metric      bool   `json:"metric"`
}

// DefaultPreferences is the record assumed when storage has none.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultCity: "Istanbul",
		Metric:      true,
	}
}

func (p Preferences) Units() Units {
	if p.Metric {
		return UnitsMetric
	}
	return UnitsImperial
}
