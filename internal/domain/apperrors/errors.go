package apperrors

import "errors"

// Sentinel errors for handlers to map to HTTP status. Anything the
// repository returns that does not match one of these is a store failure
// and propagates unchanged; nothing in this service retries it.
var (
	// ErrUserExists covers both the registration pre-check and a
	// store-level unique violation on username or email.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is deliberately shared by the "no such user"
	// and "wrong password" login paths.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
)
