package series_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/threadplot/internal/domain/series"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given newline-delimited time costs", t, func() {
		Convey("When every line is a float", func() {
			s, err := series.Parse(strings.NewReader("12.5\n9.3\n7.1\n"))

			Convey("Then values keep file order", func() {
				So(err, ShouldBeNil)
				So(s.Values, ShouldResemble, []float64{12.5, 9.3, 7.1})
				So(s.Len(), ShouldEqual, 3)
			})

			Convey("And points use thread counts 1..N", func() {
				pts := s.Points()
				So(pts.Len(), ShouldEqual, 3)
				for i := 0; i < pts.Len(); i++ {
					x, _ := pts.XY(i)
					So(x, ShouldEqual, float64(i+1))
				}
				_, y := pts.XY(2)
				So(y, ShouldEqual, 7.1)
			})
		})

		Convey("When lines carry surrounding whitespace and exponents", func() {
			s, err := series.Parse(strings.NewReader("  1e3 \r\n\t42\n-0.5"))

			Convey("Then they still parse", func() {
				So(err, ShouldBeNil)
				So(s.Values, ShouldResemble, []float64{1000, 42, -0.5})
			})
		})

		Convey("When a line is not numeric", func() {
			_, err := series.Parse(strings.NewReader("1.0\nfast\n3.0\n"))

			Convey("Then the whole read fails naming the line", func() {
				So(errors.Is(err, series.ErrParse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 2")
			})
		})

		Convey("When a blank line sits between values", func() {
			_, err := series.Parse(strings.NewReader("1.0\n\n3.0\n"))

			Convey("Then it is a parse error", func() {
				So(errors.Is(err, series.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When a value is NaN or infinite", func() {
			_, nanErr := series.Parse(strings.NewReader("1\nNaN\n"))
			_, infErr := series.Parse(strings.NewReader("inf\n"))

			Convey("Then it is rejected", func() {
				So(errors.Is(nanErr, series.ErrParse), ShouldBeTrue)
				So(errors.Is(infErr, series.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When the input is empty", func() {
			s, err := series.Parse(strings.NewReader(""))

			Convey("Then the series is empty", func() {
				So(err, ShouldBeNil)
				So(s.Len(), ShouldEqual, 0)
				So(s.Points().Len(), ShouldEqual, 0)
				So(s.Summary(), ShouldResemble, series.Summary{})
			})
		})
	})
}

func TestReadFile(t *testing.T) {
	Convey("Given a results file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "bfs_2_a_4_b.txt")
		So(os.WriteFile(path, []byte("12.5\n9.3\n7.1\n"), 0o600), ShouldBeNil)

		Convey("When it is read", func() {
			s, err := series.ReadFile(path)

			Convey("Then values and summary are available", func() {
				So(err, ShouldBeNil)
				sum := s.Summary()
				So(sum.Count, ShouldEqual, 3)
				So(sum.Min, ShouldEqual, 7.1)
				So(sum.Max, ShouldEqual, 12.5)
				So(sum.Mean, ShouldAlmostEqual, (12.5+9.3+7.1)/3, 1e-9)
			})
		})

		Convey("When the file is missing", func() {
			_, err := series.ReadFile(filepath.Join(dir, "missing.txt"))

			Convey("Then a read error wraps the filesystem error", func() {
				So(errors.Is(err, series.ErrRead), ShouldBeTrue)
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the file holds a bad line", func() {
			bad := filepath.Join(dir, "bad.txt")
			So(os.WriteFile(bad, []byte("1\nx\n"), 0o600), ShouldBeNil)
			_, err := series.ReadFile(bad)

			Convey("Then the error names the file", func() {
				So(errors.Is(err, series.ErrParse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, bad)
			})
		})
	})
}
