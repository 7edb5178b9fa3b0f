// Package render draws time series as PDF line charts with gonum/plot.
//
// Every call builds its own plot.Plot and vgpdf.Canvas; nothing drawn for
// one job is visible to the next.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/okian/threadplot/internal/domain/job"
	"github.com/okian/threadplot/internal/domain/series"
)

const (
	defaultWidth  = 6.4 * vg.Inch
	defaultHeight = 4.8 * vg.Inch

	markerRadius = 3
	lineWidth    = 1.5

	// Above this many threads the default tick marker is used instead of one tick per thread.
	maxThreadTicks = 16
)

// Renderer turns one job's series into an encoded chart.
type Renderer interface {
	Render(ctx context.Context, j job.Job, s series.Series, w io.Writer) (int64, error)
}

// PDF renders charts as single-page PDF documents.
type PDF struct {
	width  vg.Length
	height vg.Length
}

// NewPDF creates a PDF renderer. The default page matches a 6.4x4.8in figure.
func NewPDF(opts ...Option) *PDF {
	r := &PDF{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build lays out the chart for j without drawing it.
func (r *PDF) Build(j job.Job, s series.Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = j.Title()
	p.X.Label.Text = job.XLabel
	p.Y.Label.Text = job.YLabel
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(s.Points())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, j.Name, err)
	}
	line.Color = plotutil.Color(0)
	line.Width = vg.Points(lineWidth)
	points.Shape = draw.CircleGlyph{}
	points.Color = line.Color
	points.Radius = vg.Points(markerRadius)

	if s.Len() > 0 {
		p.Add(line, points)
	}
	p.Legend.Add(j.Legend(), line, points)
	p.Legend.Top = true

	if n := s.Len(); n > 0 && n <= maxThreadTicks {
		p.X.Tick.Marker = threadTicks(n)
	}
	return p, nil
}

// Render draws the chart on a fresh PDF canvas and writes it to w.
func (r *PDF) Render(ctx context.Context, j job.Job, s series.Series, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p, err := r.Build(j, s)
	if err != nil {
		return 0, err
	}

	c := vgpdf.New(r.width, r.height)
	p.Draw(draw.New(c))

	n, err := c.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %s: encode pdf: %w", ErrRender, j.Name, err)
	}
	return n, nil
}

// threadTicks labels every integer thread count from 1 to n.
type threadTicks int

func (t threadTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, int(t))
	for i := 1; i <= int(t); i++ {
		v := float64(i)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(i)})
	}
	return ticks
}
