package series

import "errors"

// Sentinel kinds for series errors.
var (
	ErrRead  = errors.New("read series failed")
	ErrParse = errors.New("invalid time value")
)
