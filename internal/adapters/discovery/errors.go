package discovery

import "errors"

// ErrWalk wraps failures while reading the results directory.
var ErrWalk = errors.New("walk results directory failed")
