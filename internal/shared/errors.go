package shared

import "fmt"

var (
	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Remote service errors
	ErrAPIRequest  = fmt.Errorf("spotify API request failed")
	ErrLyricsFetch = fmt.Errorf("lyrics fetch failed")
	ErrNetwork     = fmt.Errorf("network error")

	// Configuration and storage errors
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrSecureStorage      = fmt.Errorf("secure storage error")
	ErrSerialization      = fmt.Errorf("serialization error")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
