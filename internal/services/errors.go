package services

import "errors"

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("invoice dataset not loaded")

	// Forecast errors
	ErrForecastUnavailable = errors.New("forecast unavailable")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
