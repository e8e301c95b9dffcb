package services

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// statuses; anything else becomes a generic 500 so internal details
// never reach clients.
var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidRole        = errors.New("invalid role")
)
