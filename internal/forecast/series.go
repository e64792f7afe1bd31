// Package forecast builds the date-indexed revenue series consumed by the
// forecast collaborators and replays pre-trained models at inference time.
// No training happens here: a model is either a serialized artifact trained
// elsewhere or the seasonal-naive statistical baseline.
package forecast

import (
	"math"
	"time"

	"invoicelens/internal/dataset"
	"invoicelens/pkg/contracts/domain"
)

// DailyRevenueSeries builds the continuous daily revenue series for the
// dataset's date span. Days without transactions carry an explicit zero so
// the series has no gaps.
func DailyRevenueSeries(d *dataset.Dataset) domain.Series {
	rows := d.Rows()
	if len(rows) == 0 {
		return domain.Series{}
	}

	totals := make(map[time.Time]float64)
	var first, last time.Time
	for i, inv := range rows {
		day := time.Date(inv.InvoiceDate.Year(), inv.InvoiceDate.Month(), inv.InvoiceDate.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] += inv.Revenue()
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}

	var series domain.Series
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, domain.SeriesPoint{Date: day, Value: totals[day]})
	}
	return series
}

// Summarize computes the descriptive statistics reported alongside every
// forecast series. A zero struct is returned for an empty series.
func Summarize(series domain.Series) domain.SummaryStats {
	if len(series) == 0 {
		return domain.SummaryStats{}
	}

	stats := domain.SummaryStats{
		Min: series[0].Value,
		Max: series[0].Value,
	}
	for _, p := range series {
		stats.Sum += p.Value
		if p.Value < stats.Min {
			stats.Min = p.Value
		}
		if p.Value > stats.Max {
			stats.Max = p.Value
		}
	}
	stats.Mean = stats.Sum / float64(len(series))

	var variance float64
	for _, p := range series {
		diff := p.Value - stats.Mean
		variance += diff * diff
	}
	stats.Std = math.Sqrt(variance / float64(len(series)))
	return stats
}
