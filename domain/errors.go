package domain

import "errors"

var (
	// ErrNotFound is returned when a code, token, user or account lookup
	// misses. The API layer must remap it to an authorization failure and
	// never expose it as a 404.
	ErrNotFound = errors.New("not found")

	// ErrTokenInvalid is returned when an access token fails signature or
	// format checks. It is distinct from an expired token: an invalid token
	// forces re-login, an expired one drives the refresh path.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrDuplicateAccount is returned when an account insert collides with
	// an existing (account_type, account_id) pair.
	ErrDuplicateAccount = errors.New("account already linked")

	// ErrUpstream wraps provider or store I/O failures. Retryable; never an
	// authentication failure.
	ErrUpstream = errors.New("upstream failure")
)
