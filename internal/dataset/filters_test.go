package dataset

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByYears(t *testing.T) {
	ds := fixtureDataset()

	tests := []struct {
		name     string
		years    []int
		wantRows int
	}{
		{"nil means no filtering", nil, 5},
		{"empty yields zero rows", []int{}, 0},
		{"single year", []int{2023}, 3},
		{"multiple years", []int{2023, 2024}, 5},
		{"unmatched year is a warning not an error", []int{2023, 1999}, 3},
		{"only unmatched years", []int{1999}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := ds.FilterByYears(tt.years)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, filtered.Len())
			// Columns survive filtering even when no rows do.
			assert.Equal(t, ds.Columns(), filtered.Columns())
		})
	}
}

func TestFilterByYears_UnmatchedWarnsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	ds := fixtureDataset().WithLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	filtered, err := ds.FilterByYears([]int{2023, 1999})
	require.NoError(t, err)
	assert.Equal(t, 3, filtered.Len())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "requested years not present in dataset", entry["msg"])
	assert.Equal(t, "dataset", entry["component"])
	assert.Equal(t, []any{float64(1999)}, entry["missing_years"])
}

func TestFilterByYears_OutOfRange(t *testing.T) {
	ds := fixtureDataset()

	for _, year := range []int{1899, 2101, -5} {
		_, err := ds.FilterByYears([]int{year})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestFilterByYears_MissingColumn(t *testing.T) {
	ds := &Dataset{columns: []string{"qty", "amount"}}

	_, err := ds.FilterByYears([]int{2023})

	var filterErr *FilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "invoice_year", filterErr.Column)
	assert.Equal(t, []string{"qty", "amount"}, filterErr.Available)
}

func TestFilterByProducts(t *testing.T) {
	ds := fixtureDataset()

	tests := []struct {
		name     string
		ids      []int
		wantRows int
	}{
		{"nil means no filtering", nil, 5},
		{"empty yields zero rows", []int{}, 0},
		{"single product", []int{10}, 3},
		{"both products", []int{10, 20}, 5},
		{"unmatched id is a warning not an error", []int{10, 999}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := ds.FilterByProducts(tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, filtered.Len())
		})
	}
}

func TestFilterByProducts_NonPositiveID(t *testing.T) {
	ds := fixtureDataset()

	for _, id := range []int{0, -1} {
		_, err := ds.FilterByProducts([]int{id})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestFilterByDateRange(t *testing.T) {
	ds := fixtureDataset()

	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end time.Time
		wantRows   int
	}{
		{"both bounds open", time.Time{}, time.Time{}, 5},
		{"closed range", date(2023, 1, 1), date(2023, 12, 31), 3},
		{"open start", time.Time{}, date(2023, 6, 20), 2},
		{"open end", date(2024, 1, 1), time.Time{}, 2},
		{"bounds are inclusive", date(2023, 3, 15), date(2023, 3, 15), 1},
		{"no rows in range", date(2020, 1, 1), date(2020, 12, 31), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := ds.FilterByDateRange(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, filtered.Len())
		})
	}
}

func TestFilterByDateRange_Inverted(t *testing.T) {
	ds := fixtureDataset()

	_, err := ds.FilterByDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFilteringDoesNotMutateSource(t *testing.T) {
	ds := fixtureDataset()

	filtered, err := ds.FilterByYears([]int{2023})
	require.NoError(t, err)
	require.Equal(t, 3, filtered.Len())

	assert.Equal(t, 5, ds.Len())
}

func TestApplyFilters_OrderIndependent(t *testing.T) {
	ds := fixtureDataset()

	byYearFirst, err := ds.FilterByYears([]int{2023})
	require.NoError(t, err)
	byYearFirst, err = byYearFirst.FilterByProducts([]int{10})
	require.NoError(t, err)

	byProductFirst, err := ds.FilterByProducts([]int{10})
	require.NoError(t, err)
	byProductFirst, err = byProductFirst.FilterByYears([]int{2023})
	require.NoError(t, err)

	assert.Equal(t, byYearFirst.Rows(), byProductFirst.Rows())
	assert.Equal(t, byYearFirst.KPIs(), byProductFirst.KPIs())
}

func TestApplyFilters_Combined(t *testing.T) {
	ds := fixtureDataset()

	filtered, err := ds.ApplyFilters(Criteria{
		Years:    []int{2023, 2024},
		Products: []int{10},
		Start:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Product 10 transactions from June 2023 onward: 20/06/2023 and 25/11/2024.
	assert.Equal(t, 2, filtered.Len())
}

func TestApplyFilters_ZeroCriteriaIsIdentity(t *testing.T) {
	ds := fixtureDataset()

	filtered, err := ds.ApplyFilters(Criteria{})
	require.NoError(t, err)
	assert.Equal(t, ds.Rows(), filtered.Rows())
}
