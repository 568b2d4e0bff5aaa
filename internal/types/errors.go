package types

import "errors"

var (
	// ErrNotFound is returned when a catalog entry or storage key does not exist.
	ErrNotFound = errors.New("requested item not found")
	// ErrUnknownCategory is returned by strict category lookups.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrStorageUnavailable wraps every failure of the key-value backend.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptValue is returned when a stored value cannot be decoded.
	ErrCorruptValue = errors.New("stored value is corrupt")
	// ErrMalformedCoordinates is returned by strict coordinate parsing.
	ErrMalformedCoordinates = errors.New("malformed coordinates")
)
