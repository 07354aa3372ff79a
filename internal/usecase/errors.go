package usecase

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrDependencyUnavailable  = errors.New("dependency unavailable")
	ErrTournamentNotScannable = errors.New("tournament is not scannable")
)

// Provider failure classes. External clients mark their errors with these so
// the scan can bucket failures without importing the client package.
var (
	ErrProviderRateLimited = errors.New("provider rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderNotFound    = errors.New("provider resource not found")
)
