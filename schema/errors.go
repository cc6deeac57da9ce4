package schema

import "errors"

// Failure kinds surfaced by the pipelines.
var (
	// ErrFetch marks a failure to obtain records from the record source.
	ErrFetch = errors.New("fetch failure")

	// ErrProcessing marks malformed records or an unexpected failure inside a pipeline.
	ErrProcessing = errors.New("processing failure")
)

// ErrorKind returns the failure kind of err, or an empty string when err is nil
// or does not carry a known kind.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFetch):
		return ErrFetch.Error()
	case errors.Is(err, ErrProcessing):
		return ErrProcessing.Error()
	default:
		return ""
	}
}
