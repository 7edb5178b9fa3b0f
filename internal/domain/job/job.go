// Package job derives chart parameters from the results file naming scheme
// {scheduleType}_{chunk}_{field3}_{maxThread}_{field5}.
package job

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	fieldSeparator = "_"
	fieldCount     = 5
)

// Chart labels shared by every job.
const (
	XLabel = "Number of Threads"
	YLabel = "Time Cost (ms)"
)

// Job is one input file to output PDF conversion.
type Job struct {
	// Name is the identifier the fields were parsed from, extension removed.
	Name string

	ScheduleType string
	Chunk        string
	MaxThread    string

	Input  string
	Output string
}

// Parse splits name into the five positional fields. A trailing extension is
// dropped first. ScheduleType keeps only its last '/'-separated segment.
func Parse(name string) (Job, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	fields := strings.Split(base, fieldSeparator)
	if len(fields) != fieldCount {
		return Job{}, fmt.Errorf("%w: %q has %d %q-separated fields, want %d",
			ErrInvalidName, name, len(fields), fieldSeparator, fieldCount)
	}

	schedule := filepath.ToSlash(fields[0])
	if i := strings.LastIndex(schedule, "/"); i >= 0 {
		schedule = schedule[i+1:]
	}

	return Job{
		Name:         base,
		ScheduleType: schedule,
		Chunk:        fields[1],
		MaxThread:    fields[3],
	}, nil
}

// New parses the base name of input and binds the job to its paths.
func New(input, output string) (Job, error) {
	j, err := Parse(filepath.Base(input))
	if err != nil {
		return Job{}, err
	}
	j.Input = input
	j.Output = output
	return j, nil
}

// Title is the chart heading.
func (j Job) Title() string {
	return fmt.Sprintf("Time Cost vs. Threads - %s=%s, max threads=%s", j.ScheduleType, j.Chunk, j.MaxThread)
}

// Legend labels the plotted line with the input file name.
func (j Job) Legend() string {
	if j.Input != "" {
		return j.Input
	}
	return j.Name
}

// Paths joins an identifier onto dir with the input and output extensions.
func Paths(dir, id, inputExt, outputExt string) (input, output string) {
	return filepath.Join(dir, id+inputExt), filepath.Join(dir, id+outputExt)
}
