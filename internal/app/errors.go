package service

import "errors"

// ErrWrite wraps failures while persisting a rendered chart.
var ErrWrite = errors.New("write chart failed")
