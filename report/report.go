// Package report collects the outcome of a batch conversion and writes it
// as a text table, markdown or HTML.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status values, as printed in the text report.
const (
	StatusConverted = "Converted"
	StatusFailed    = "Errors Occurred"
)

// NoError is the error kind of a converted file.
const NoError = "None"

// Entry is the outcome of one file.
type Entry struct {
	File           string
	ExperimentType string
	Status         string
	ErrorKind      string
	Message        string
	Output         string
	Duration       time.Duration
}

// Failed reports whether the file failed to convert.
func (e Entry) Failed() bool { return e.Status == StatusFailed }

// Report is the outcome of a batch run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Entries  []Entry
}

// New starts a report with a fresh run id.
func New() *Report {
	return &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
}

// Add appends an entry. A converted entry gets the NoError kind.
func (r *Report) Add(e Entry) {
	if !e.Failed() {
		e.Status = StatusConverted
		e.ErrorKind = NoError
	}
	r.Entries = append(r.Entries, e)
}

// Finish records the end of the run.
func (r *Report) Finish() {
	r.Finished = time.Now()
}

// Converted returns the number of converted files.
func (r *Report) Converted() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Failed() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that failed.
func (r *Report) Failed() int {
	return len(r.Entries) - r.Converted()
}

// ErrorKinds counts failures per error kind.
func (r *Report) ErrorKinds() map[string]int {
	kinds := make(map[string]int)
	for _, e := range r.Entries {
		if e.Failed() {
			kinds[e.ErrorKind]++
		}
	}
	return kinds
}

// sortedKinds returns the error kinds of r by name.
func (r *Report) sortedKinds() []string {
	kinds := r.ErrorKinds()
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
