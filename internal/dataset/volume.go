package dataset

import (
	"fmt"
	"time"

	"invoicelens/pkg/contracts/domain"
)

// TransactionVolume resamples the transaction timeline to the requested
// granularity. The bucket range is continuous from the first to the last
// bucket: gaps carry an explicit zero so trend charts never show "no data"
// where the real answer is "zero activity". Weekly buckets are anchored on
// Sunday, monthly buckets on the month-end date.
func (d *Dataset) TransactionVolume(freq domain.Frequency) ([]domain.VolumePoint, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: frequency %q (use %q, %q or %q)",
			ErrInvalidArgument, freq,
			domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly)
	}
	if err := d.requireColumn("invoice_date"); err != nil {
		return nil, err
	}
	if len(d.rows) == 0 {
		return []domain.VolumePoint{}, nil
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	for i, inv := range d.rows {
		bucket := bucketEnd(truncateDay(inv.InvoiceDate), freq)
		counts[bucket]++
		if i == 0 || bucket.Before(first) {
			first = bucket
		}
		if i == 0 || bucket.After(last) {
			last = bucket
		}
	}

	var points []domain.VolumePoint
	for bucket := first; !bucket.After(last); bucket = nextBucket(bucket, freq) {
		points = append(points, domain.VolumePoint{Date: bucket, Volume: counts[bucket]})
	}
	return points, nil
}

// truncateDay normalizes a timestamp to midnight UTC.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketEnd maps a calendar day to the label date of its bucket: the day
// itself, the Sunday ending its week, or the last day of its month.
func bucketEnd(day time.Time, freq domain.Frequency) time.Time {
	switch freq {
	case domain.FrequencyWeekly:
		offset := (7 - int(day.Weekday())) % 7
		return day.AddDate(0, 0, offset)
	case domain.FrequencyMonthly:
		return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// nextBucket advances a bucket label to the following bucket.
func nextBucket(bucket time.Time, freq domain.Frequency) time.Time {
	switch freq {
	case domain.FrequencyWeekly:
		return bucket.AddDate(0, 0, 7)
	case domain.FrequencyMonthly:
		return time.Date(bucket.Year(), bucket.Month()+2, 0, 0, 0, 0, 0, time.UTC)
	default:
		return bucket.AddDate(0, 0, 1)
	}
}
