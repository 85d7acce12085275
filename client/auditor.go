package client

import "net/http"

// Response headers the auditor expects on CORS-enabled endpoints.
const (
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerAllowHeaders = "Access-Control-Allow-Headers"
)

// AuditResult reports how a response's CORS headers compare against the
// expected set. It is diagnostic only: produced per response for logging or
// UI display, never persisted, and never alters the dispatch outcome.
type AuditResult struct {
	Valid bool

	// ObservedHeaders maps each expected header to its value; an absent
	// header maps to the empty string.
	ObservedHeaders map[string]string

	// Errors lists violations in check order.
	Errors []string
}

// Audit inspects a completed response's CORS headers. A missing allow-origin
// header is the hard failure; missing allow-methods/allow-headers are
// recorded but do not themselves invalidate the response.
func Audit(resp *http.Response) AuditResult {
	result := AuditResult{
		ObservedHeaders: make(map[string]string, 3),
	}

	for _, name := range []string{headerAllowOrigin, headerAllowMethods, headerAllowHeaders} {
		result.ObservedHeaders[name] = resp.Header.Get(name)
	}

	if result.ObservedHeaders[headerAllowOrigin] == "" {
		result.Errors = append(result.Errors, headerAllowOrigin+" is required")
	}
	if result.ObservedHeaders[headerAllowMethods] == "" {
		result.Errors = append(result.Errors, headerAllowMethods+" is missing")
	}
	if result.ObservedHeaders[headerAllowHeaders] == "" {
		result.Errors = append(result.Errors, headerAllowHeaders+" is missing")
	}

	// Allow-origin presence is the dominant condition; the soft checks above
	// are recorded without flipping validity.
	result.Valid = result.ObservedHeaders[headerAllowOrigin] != ""
	return result
}

// ValidateOrigin reports whether the response's allow-origin header permits
// currentOrigin, either exactly or via the wildcard.
func ValidateOrigin(resp *http.Response, currentOrigin string) bool {
	value := resp.Header.Get(headerAllowOrigin)
	return value == "*" || value == currentOrigin
}
