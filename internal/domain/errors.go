package domain

import "github.com/pkg/errors"

var (
	// ErrInvalidIdentifier is returned when no 10-digit post id can be found.
	ErrInvalidIdentifier = errors.New("invalid craigslist post identifier")
	// ErrInvalidImagePath is returned when an image locator does not fit its variant.
	ErrInvalidImagePath = errors.New("invalid image path")
	// ErrPageStructure is returned when an expected region of an ad page is missing.
	ErrPageStructure = errors.New("unexpected page structure")
	// ErrPageNotFound is returned by fetchers when the page no longer exists.
	ErrPageNotFound = errors.New("page not found")
	// ErrPageUnavailable is returned by fetchers for every other failure.
	ErrPageUnavailable = errors.New("page unavailable")
	// ErrMissingField is returned when an archive cannot be rendered.
	ErrMissingField = errors.New("missing field")
	// ErrNotFound is returned by the store when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrReadOnly is returned when replying through a collector that cannot post.
	ErrReadOnly = errors.New("collector is read-only")
)
