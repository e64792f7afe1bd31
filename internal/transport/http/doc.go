// Package http implements the HTTP request handlers for the dashboard API.
// It is a thin layer between transport and business logic: handlers parse
// and validate query parameters, delegate to the service layer, and format
// responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Dataset
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details: service and dataset errors
// are translated by errors.ErrorHandler into a problem+json body carrying
// the trace_id of the failing request.
//
// # Filter Parameters
//
// Every aggregation endpoint accepts the shared filter query parameters:
//
//	years=2023,2024      restrict to the listed invoice years
//	products=10,20       restrict to the listed product IDs
//	from=2023-01-01      inclusive start date (ISO 8601)
//	to=2024-12-31        inclusive end date (ISO 8601)
//
// Omitted parameters leave the corresponding dimension unfiltered.
package http
