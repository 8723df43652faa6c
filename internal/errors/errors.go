package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidURL      = errors.New("url matches neither a v.redd.it nor a reddit post shape")
	ErrNoMediaFound    = errors.New("no video attached to post")
	ErrEmptyOptions    = errors.New("no renditions to choose from")
	ErrQualityNotFound = errors.New("requested quality is not available")
	ErrInvalidPolicy   = errors.New("invalid quality policy")
	ErrTaskNotFound    = errors.New("task not found")
)

// TransportError is returned for any failed GET: dial/read failures and non-2xx statuses.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status=%d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MuxError reports a failed ffmpeg invocation or a run that left no output file behind.
type MuxError struct {
	Args   []string
	Output string
	Err    error
}

func (e *MuxError) Error() string {
	msg := fmt.Sprintf("mux failed: %v", e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += " | " + out
	}
	return msg
}

func (e *MuxError) Unwrap() error {
	return e.Err
}

// Kind returns a short machine-readable name for the error class of err.
func Kind(err error) string {
	var transportErr *TransportError
	var muxErr *MuxError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrNoMediaFound):
		return "no_media_found"
	case errors.Is(err, ErrEmptyOptions):
		return "empty_options"
	case errors.Is(err, ErrQualityNotFound):
		return "quality_not_found"
	case errors.Is(err, ErrInvalidPolicy):
		return "invalid_policy"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &muxErr):
		return "mux"
	default:
		return "internal"
	}
}
