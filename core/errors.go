package core

import "errors"

// Session errors
var (
	ErrUnauthorized    = errors.New("unauthorized")            // 401 after the token-clearing retry
	ErrSessionMissing  = errors.New("no active session")       // operation requires Authenticated state
	ErrAlreadyLoggedIn = errors.New("session already active") // Login from Authenticated state
)

// Validation errors (client input)
var (
	ErrPhoneRequired    = errors.New("phone is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUnknownRole      = errors.New("unknown role")
)

// Config errors
var (
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrCookieStoreRequired = errors.New("cookie store is required")
)

// generic fallback surfaced when retries exhaust with no server message
const ConnectivityMessage = "Unable to connect to our servers. please check your internet connection"

// APIError is the normalized failure shape every caller sees. Message is
// always human-readable: the server's message body when one was returned,
// otherwise a generic connectivity notice.
type APIError struct {
	StatusCode int    `json:"status,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Unauthorized reports whether the failure was an authentication failure
// that survived the token-clearing retry.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == 401
}

// NormalizeError converts any failure into an *APIError without double
// wrapping. Callers may rely on errors.As(err, &apiErr) succeeding.
func NormalizeError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, ErrUnauthorized) {
		return &APIError{StatusCode: 401, Message: ErrUnauthorized.Error()}
	}
	return &APIError{Message: ConnectivityMessage}
}
