package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/render"

	"invoicelens/internal/dataset"
	"invoicelens/internal/infrastructure"
	"invoicelens/internal/ingest"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"
	TypeTimeout     = "/errors/timeout"
)

// Domain-specific error types
const (
	TypeDataNotFound     = "/errors/data/not-found"
	TypeDataEmpty        = "/errors/data/empty"
	TypeDataParse        = "/errors/data/parse"
	TypeDataRejected     = "/errors/data/rejected"
	TypeFilterColumn     = "/errors/filter/missing-column"
	TypeInvalidParameter = "/errors/invalid-parameter"
)

// ErrorHandler translates domain errors into RFC 7807 responses at the
// HTTP edge. It is the only place status codes are assigned.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler. includeStack exposes stack
// traces in responses and must stay off outside local debugging.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// problem builds a ProblemDetails for the current request and stamps the
// trace ID on it.
func problem(r *http.Request, status int, errType, title, detail string) *ProblemDetails {
	return NewProblemDetails(status, errType, title, detail, r.URL.Path).
		WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))
}

// HandleError logs the failure and writes the mapped problem response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	p := h.ErrorToProblem(err, r)
	if h.includeStack {
		p.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, p)
}

// ErrorToProblem maps an error onto its problem response. Ingestion and
// filter failures keep their full violation detail; anything unclassified
// degrades to an opaque 500.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return problem(r, http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The request took too long to process and was cancelled")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var valErr *ingest.ValidationError
	if errors.As(err, &valErr) {
		return problem(r, http.StatusUnprocessableEntity, TypeDataRejected,
			"Invoice Data Rejected", valErr.Error()).
			WithExtension("phase", valErr.Phase).
			WithExtension("violations", valErr.Violations)
	}

	var filterErr *dataset.FilterError
	if errors.As(err, &filterErr) {
		return problem(r, http.StatusUnprocessableEntity, TypeFilterColumn,
			"Required Column Missing", filterErr.Error()).
			WithExtension("column", filterErr.Column).
			WithExtension("available_columns", filterErr.Available)
	}

	switch {
	case errors.Is(err, ingest.ErrNotFound):
		return problem(r, http.StatusNotFound, TypeDataNotFound,
			"Data File Not Found", err.Error())
	case errors.Is(err, ingest.ErrEmpty):
		return problem(r, http.StatusUnprocessableEntity, TypeDataEmpty,
			"Data File Empty", err.Error())
	case errors.Is(err, ingest.ErrParse):
		return problem(r, http.StatusUnprocessableEntity, TypeDataParse,
			"Data File Unreadable", err.Error())
	case errors.Is(err, dataset.ErrInvalidArgument):
		return problem(r, http.StatusBadRequest, TypeInvalidParameter,
			"Invalid Parameter", err.Error())
	default:
		return problem(r, http.StatusInternalServerError, TypeInternal,
			"Internal Server Error", "An unexpected error occurred while processing your request")
	}
}

func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED":
		problemType = TypeValidation
	case "NOT_FOUND", "DATASET_NOT_FOUND":
		problemType = TypeNotFound
	case "INVALID_REQUEST", "INVALID_PARAMETER":
		problemType = TypeInvalidParameter
	case "DATA_REJECTED":
		problemType = TypeDataRejected
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	case "SERVICE_UNAVAILABLE":
		problemType = TypeServiceDown
	}

	p := problem(r, apiErr.StatusCode, problemType,
		http.StatusText(apiErr.StatusCode), apiErr.Message).
		WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		p.WithExtension("details", apiErr.Details)
	}
	return p
}

// NotFound is the router's fallback for unknown paths.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, problem(r, http.StatusNotFound, TypeNotFound,
		"Not Found", "The requested resource was not found"))
}

// MethodNotAllowed is the router's fallback for unsupported methods.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, problem(r, http.StatusMethodNotAllowed, TypeInternal,
		"Method Not Allowed", fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method)))
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
