package render

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the PDF renderer.
type Option func(*PDF)

// WithPageSize sets the page size in inches. Non-positive values are ignored.
func WithPageSize(widthIn, heightIn float64) Option {
	return func(r *PDF) {
		if widthIn > 0 && heightIn > 0 {
			r.width = vg.Length(widthIn) * vg.Inch
			r.height = vg.Length(heightIn) * vg.Inch
		}
	}
}
