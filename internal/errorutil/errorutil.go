package errorutil

import "errors"

// ErrDataIntegrity is a base error type to use for failures caused by
// malformed or internally inconsistent profile data.
var ErrDataIntegrity = errors.New("data integrity error")

// ErrUnknownVersion is returned when a profile document declares a
// version this engine does not understand.
var ErrUnknownVersion = errors.New("unknown profile version")
