package contestui

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrUnknownHandle     = errors.New("contestui: unknown component handle")
	ErrIndexOutOfRange   = errors.New("contestui: row index out of range")
	ErrNilRoute          = errors.New("contestui: route function is required")
	ErrIteratorBusy      = errors.New("contestui: page request already in flight")
	ErrFetchFailed       = errors.New("contestui: page fetch failed")
	ErrMalformedResponse = errors.New("contestui: malformed page response")
)

// IndexError reports an out-of-range row access.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("contestui: row index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// StatusError is returned by HTTPFetcher for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contestui: %s returned status %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrFetchFailed }

// IsIndexError checks if err is an out-of-range row access.
func IsIndexError(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}

// IsFetchError checks if err came from a failed or unparseable page fetch.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed) || errors.Is(err, ErrMalformedResponse)
}
