package user

import "errors"

// Error kinds returned by lifecycle operations. Callers branch on these
// with errors.Is; the API layer maps them to HTTP status codes.
var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPublish         = errors.New("failed to publish event")
)
