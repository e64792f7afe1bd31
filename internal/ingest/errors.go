package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying the expected load failure modes. Callers
// branch with errors.Is; none of these is ever returned bare.
var (
	// ErrNotFound indicates the data file path does not resolve to a
	// readable file.
	ErrNotFound = errors.New("data file not found")

	// ErrEmpty indicates the data file has a header but zero data rows,
	// or no content at all.
	ErrEmpty = errors.New("data file is empty")

	// ErrParse indicates the tabular structure could not be parsed.
	ErrParse = errors.New("data file could not be parsed")
)

// Violation describes one constraint failure within a validation phase.
type Violation struct {
	Column   string   `json:"column"`
	Count    int      `json:"count"`
	Percent  float64  `json:"percent,omitempty"`
	Message  string   `json:"message"`
	Examples []string `json:"examples,omitempty"`
}

// ValidationError reports every violation found in a single validation
// phase, not just the first. The load is all-or-nothing: a ValidationError
// means the whole file was rejected.
type ValidationError struct {
	Phase      string      `json:"phase"`
	Violations []Violation `json:"violations"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Column, v.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Phase, strings.Join(parts, "; "))
}

// Columns returns the distinct affected column names in violation order.
func (e *ValidationError) Columns() []string {
	seen := make(map[string]bool, len(e.Violations))
	var cols []string
	for _, v := range e.Violations {
		if !seen[v.Column] {
			seen[v.Column] = true
			cols = append(cols, v.Column)
		}
	}
	return cols
}

func newValidationError(phase string, violations []Violation) *ValidationError {
	return &ValidationError{Phase: phase, Violations: violations}
}
