// Package series reads per-thread time costs, one value per line.
package series

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
)

// Series holds time costs in thread order: Values[i] was measured with i+1 threads.
type Series struct {
	Values []float64
}

// Summary describes a series for logging.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// Parse reads one float per line from r. Surrounding whitespace is ignored;
// any other content, including a blank line, fails the whole read.
func Parse(r io.Reader) (Series, error) {
	var values []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Series{}, fmt.Errorf("%w: line %d: %q", ErrParse, line, text)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Series{}, fmt.Errorf("%w: line %d: non-finite value %q", ErrParse, line, text)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return Series{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Series{Values: values}, nil
}

// ReadFile opens path and parses it.
func ReadFile(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Series{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of measurements.
func (s Series) Len() int { return len(s.Values) }

// Points pairs each value with its thread count, starting at 1.
func (s Series) Points() plotter.XYs {
	pts := make(plotter.XYs, len(s.Values))
	for i, v := range s.Values {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	return pts
}

// Summary returns count, min, max and mean. An empty series yields zeros.
func (s Series) Summary() Summary {
	if len(s.Values) == 0 {
		return Summary{}
	}
	return Summary{
		Count: len(s.Values),
		Min:   floats.Min(s.Values),
		Max:   floats.Max(s.Values),
		Mean:  stat.Mean(s.Values, nil),
	}
}
