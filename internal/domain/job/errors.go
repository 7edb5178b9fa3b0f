package job

import "errors"

// ErrInvalidName reports a file name that does not have exactly five fields.
var ErrInvalidName = errors.New("invalid job name")
