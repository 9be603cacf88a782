package listing

import "errors"

var (
	// ErrListingNotFound signals that no listing matched the identifier.
	ErrListingNotFound = errors.New("listing not found")
)
