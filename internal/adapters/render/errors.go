package render

import "errors"

// ErrRender wraps failures while building or encoding a chart.
var ErrRender = errors.New("render chart failed")
