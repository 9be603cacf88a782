package storage

import "errors"

var (
	// ErrUpstreamUnavailable indicates the hosted store could not be reached
	// or returned a server-side failure.
	ErrUpstreamUnavailable = errors.New("store unavailable")
	// ErrRequestFailed indicates the hosted store rejected the request.
	ErrRequestFailed = errors.New("store request failed")
)
