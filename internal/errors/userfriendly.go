package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// Short renders the message and reason on one line for status bars.
func (e UserFriendlyError) Short() string {
	if e.Reason == "" {
		return e.Message
	}
	return e.Message + ": " + e.Reason
}

// httpStatuser is implemented by upstream errors that carry a response code.
type httpStatuser interface {
	HTTPStatus() int
}

// WrapNetworkError wraps an upstream API failure with user-friendly context.
func WrapNetworkError(err error, url string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to fetch %s", url),
		Reason:  extractNetworkReason(err),
		Hint:    "The catalog API may be unreachable or rate limiting this client",
		Try:     "Press r to retry, or check connectivity with: dexterm list --page-size 1 --log-level verbose",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Every setting has a default; delete the offending key to fall back to it",
		Try:     "Write a fresh file with: dexterm config init",
		Err:     err,
	}
}

// WrapNotFound reports a lookup key the API does not know.
func WrapNotFound(err error, key string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("No entry matches %q", key),
		Reason:  "The API returned 404 Not Found",
		Hint:    "Lookups accept a national number (1-151 for this catalog) or a lowercase name",
		Try:     "dexterm list --query " + strings.ToLower(key),
		Err:     err,
	}
}

// IsNotFound reports whether err carries an HTTP 404 from the API.
func IsNotFound(err error) bool {
	var hs httpStatuser
	if stderrors.As(err, &hs) {
		return hs.HTTPStatus() == http.StatusNotFound
	}
	return false
}

func extractNetworkReason(err error) string {
	var hs httpStatuser
	if stderrors.As(err, &hs) && hs.HTTPStatus() != 0 {
		code := hs.HTTPStatus()
		switch {
		case code == http.StatusNotFound:
			return "Resource not found (HTTP 404)"
		case code == http.StatusTooManyRequests:
			return "Rate limited by the API (HTTP 429)"
		case code >= 500:
			return fmt.Sprintf("API server error (HTTP %d)", code)
		default:
			return fmt.Sprintf("Unexpected HTTP status %d", code)
		}
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context canceled") {
		return "Request cancelled"
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Request timed out - the API may be slow or unreachable"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused - nothing is listening at the API address"
	}
	if strings.Contains(errStr, "no such host") {
		return "DNS lookup failed - check the API base URL and your network"
	}
	if strings.Contains(errStr, "connection reset") {
		return "Connection reset - the API closed the connection unexpectedly"
	}
	if strings.Contains(errStr, "decode") || strings.Contains(errStr, "invalid character") {
		return "Received a malformed response from the API"
	}

	return "Network communication failed"
}
