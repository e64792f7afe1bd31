package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"invoicelens/pkg/contracts/domain"
)

// seasonLength is the weekly seasonality assumed by the baseline model.
const seasonLength = 7

var (
	// ErrEmptyHistory indicates the revenue series has no observations.
	ErrEmptyHistory = errors.New("revenue history is empty")

	// ErrInvalidHorizon indicates a non-positive or unsupported horizon.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
)

// Forecaster is the contract between the dashboard core and a forecast
// collaborator: accept a date-indexed revenue series and a horizon, return
// a date-indexed forecast series plus summary statistics.
type Forecaster interface {
	Forecast(ctx context.Context, history domain.Series, horizon int) (domain.Forecast, error)
}

// NaiveForecaster is the statistical baseline: it repeats the trailing
// weekly pattern of the history over the horizon.
type NaiveForecaster struct{}

// Forecast implements the Forecaster interface.
func (NaiveForecaster) Forecast(_ context.Context, history domain.Series, horizon int) (domain.Forecast, error) {
	if len(history) == 0 {
		return domain.Forecast{}, ErrEmptyHistory
	}
	if horizon <= 0 {
		return domain.Forecast{}, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}

	season := seasonLength
	if len(history) < season {
		season = len(history)
	}
	tail := history[len(history)-season:]

	points := make(domain.Series, horizon)
	start := history.End()
	for i := 0; i < horizon; i++ {
		points[i] = domain.SeriesPoint{
			Date:  start.AddDate(0, 0, i+1),
			Value: tail[i%season].Value,
		}
	}

	return domain.Forecast{
		Model:   "seasonal_naive",
		Horizon: horizon,
		Points:  points,
		Summary: Summarize(points),
	}, nil
}

// artifact is the serialized form of a model trained offline: the model
// name, its look-back window and the forecast values to replay.
type artifact struct {
	Model    string    `json:"model"`
	LookBack int       `json:"look_back"`
	Values   []float64 `json:"values"`
}

// ReplayForecaster replays a forecast artifact produced by an external
// training pipeline. Inference only: values are read from the artifact and
// aligned to the day after the history ends.
type ReplayForecaster struct {
	artifact artifact
	logger   *slog.Logger
}

// LoadArtifact reads a serialized forecast artifact from disk.
func LoadArtifact(path string, logger *slog.Logger) (*ReplayForecaster, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forecast artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode forecast artifact: %w", err)
	}
	if a.Model == "" || len(a.Values) == 0 {
		return nil, fmt.Errorf("forecast artifact %s carries no model values", path)
	}

	logger.Info("forecast artifact loaded",
		slog.String("path", path),
		slog.String("model", a.Model),
		slog.Int("look_back", a.LookBack),
		slog.Int("values", len(a.Values)),
	)
	return &ReplayForecaster{artifact: a, logger: logger}, nil
}

// Forecast implements the Forecaster interface.
func (f *ReplayForecaster) Forecast(_ context.Context, history domain.Series, horizon int) (domain.Forecast, error) {
	if len(history) == 0 {
		return domain.Forecast{}, ErrEmptyHistory
	}
	if horizon <= 0 || horizon > len(f.artifact.Values) {
		return domain.Forecast{}, fmt.Errorf("%w: %d (artifact holds %d values)",
			ErrInvalidHorizon, horizon, len(f.artifact.Values))
	}
	if f.artifact.LookBack > 0 && len(history) < f.artifact.LookBack {
		return domain.Forecast{}, fmt.Errorf("history of %d days is shorter than the model look-back window of %d",
			len(history), f.artifact.LookBack)
	}

	points := make(domain.Series, horizon)
	start := history.End()
	for i := 0; i < horizon; i++ {
		points[i] = domain.SeriesPoint{
			Date:  start.AddDate(0, 0, i+1),
			Value: f.artifact.Values[i],
		}
	}

	return domain.Forecast{
		Model:   f.artifact.Model,
		Horizon: horizon,
		Points:  points,
		Summary: Summarize(points),
	}, nil
}
