package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch is matched by every *FetchError.
	ErrFetch = errors.New("steam fetch failed")

	// ErrAPIKeyRequired indicates that no Steam Web API key was configured.
	ErrAPIKeyRequired = errors.New("no Steam WebAPI key provided: set STEAM_API_KEY or run with --api-key")
)

// FetchError reports a failed Steam Web API call.
type FetchError struct {
	// Op is the API method, e.g. "GetCollectionDetails".
	Op string
	// CollectionID is the collection being fetched.
	CollectionID uint64
	// Status is the HTTP status code, zero for transport errors.
	Status int
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("steam %s for collection %d: HTTP %d: %v", e.Op, e.CollectionID, e.Status, e.Err)
	}
	return fmt.Sprintf("steam %s for collection %d: %v", e.Op, e.CollectionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// retryable reports whether a failed attempt is worth repeating.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == 429
	}
	var re *resultError
	return !errors.As(err, &re)
}
