package dng

import "errors"

// Errors returned by Convert. Callers that need to distinguish the
// documented exit codes (structural vs. I/O) can match against these
// with errors.Is.
var (
	// ErrUnsupportedCamera is returned when the PRD block doesn't
	// identify the one camera body this converter understands.
	ErrUnsupportedCamera = errors.New("dng: unsupported camera model")
	// errInvalidTTW is returned when the TTW block doesn't start with
	// the expected big-endian TIFF header.
	errInvalidTTW = errors.New("dng: invalid TTW block format")
	// ErrIO marks a failure opening, creating or writing a file, as distinct
	// from a structural error in the source; wrapped errors satisfy
	// errors.Is(err, ErrIO) so a caller can map it to the I/O exit code.
	ErrIO = errors.New("dng: I/O error")
)
