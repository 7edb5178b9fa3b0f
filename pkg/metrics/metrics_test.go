package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it owns a registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("charts"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)
			manager.SetJobsDiscovered(2)

			Convey("Then metric names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_charts_jobs_discovered" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a fresh manager", t, func() {
		m := NewManager()

		Convey("When jobs succeed and fail", func() {
			m.SetJobsDiscovered(3)
			m.RecordJobSucceeded(4, 1000)
			m.RecordJobSucceeded(2, 500)
			m.RecordJobFailed(StageRead)
			m.RecordRenderLatency(12 * time.Millisecond)

			Convey("Then counters reflect the outcomes", func() {
				So(testutil.ToFloat64(m.jobsDiscovered), ShouldEqual, 3.0)
				So(testutil.ToFloat64(m.jobsTotal.WithLabelValues(StatusSucceeded)), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.jobsTotal.WithLabelValues(StatusFailed)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.jobFailures.WithLabelValues(StageRead)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.pointsPlotted), ShouldEqual, 6.0)
				So(testutil.ToFloat64(m.bytesWritten), ShouldEqual, 1500.0)
				So(testutil.CollectAndCount(m.renderLatency), ShouldEqual, 1)
			})
		})

		Convey("When a run finishes", func() {
			at := time.Unix(1_700_000_000, 0)
			m.RecordRunFinished(1500*time.Millisecond, at)

			Convey("Then duration and timestamp are set", func() {
				So(testutil.ToFloat64(m.runDuration), ShouldEqual, 1.5)
				So(testutil.ToFloat64(m.lastRunUnixTime), ShouldEqual, 1_700_000_000.0)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded jobs", t, func() {
		m := NewManager()
		m.RecordJobSucceeded(3, 10)
		dir := t.TempDir()

		Convey("When exporting to a textfile", func() {
			path := filepath.Join(dir, "threadplot.prom")
			err := m.WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `threadplot_plot_jobs_total{status="succeeded"} 1`)
				So(string(data), ShouldContainSubstring, "threadplot_plot_points_plotted_total 3")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := m.WriteTextfile(filepath.Join(dir, "missing", "x.prom"))

			Convey("Then an export error is returned", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), ErrExport.Error()), ShouldBeTrue)
			})
		})
	})

	Convey("Given the global helpers", t, func() {
		So(func() {
			SetJobsDiscovered(1)
			RecordJobSucceeded(1, 1)
			RecordJobFailed(StageName)
			RecordRenderLatency(time.Millisecond)
			RecordRunFinished(time.Second, time.Now())
		}, ShouldNotPanic)
	})
}
