package domain

import "time"

// SeriesPoint is one observation of a date-indexed series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a date-indexed value series, ordered ascending by date with no
// gaps. It is the contract between the dashboard core and the forecast
// collaborators: they accept a revenue series and return a forecast series.
type Series []SeriesPoint

// SummaryStats are the descriptive statistics every forecast collaborator
// returns alongside its forecast series.
type SummaryStats struct {
	Mean float64 `json:"mean"`
	Sum  float64 `json:"sum"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
}

// Forecast is a date-indexed forecast series plus its summary statistics.
type Forecast struct {
	Model   string       `json:"model"`
	Horizon int          `json:"horizon"`
	Points  Series       `json:"points"`
	Summary SummaryStats `json:"summary"`
}

// Start returns the first date of the series, or the zero time when empty.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

// End returns the last date of the series, or the zero time when empty.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Values returns the series values in date order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}
