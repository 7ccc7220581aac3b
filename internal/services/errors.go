package services

import "errors"

// Sentinel errors for every expected, locally recoverable condition.
// Handlers translate these to HTTP statuses; anything else is a 500.
var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrBarangaySeatTaken    = errors.New("barangay already has a registered representative")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPendingApproval      = errors.New("account is pending approval by the admin")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
