package contracts

import "fmt"

// NetworkError is returned when a feed request fails or answers with a non-2xx status
type NetworkError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError is returned when a feed body is not the expected JSON shape
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError is returned when a snapshot fails structural validation.
// Nothing is rendered for the call that produced it.
type RenderError struct {
	Field  string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %s", e.Field, e.Reason)
}
