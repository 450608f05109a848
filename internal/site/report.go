package site

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the final state of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures what a single build did.
type BuildReport struct {
	ID             string
	Revision       string // source commit, empty outside git
	Start          time.Time
	End            time.Time
	Outcome        BuildOutcome
	Documents      map[string]int // category -> documents rendered
	Pages          int
	Resources      int // bundle resources copied next to pages
	StaticFiles    int
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	FailedStage    StageName
	Errors         []error
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		ID:             uuid.NewString(),
		Start:          time.Now(),
		Documents:      map[string]int{},
		StageDurations: map[StageName]time.Duration{},
		StageResults:   map[StageName]StageResult{},
	}
}

func (r *BuildReport) recordStage(stage StageName, d time.Duration, res StageResult) {
	r.StageDurations[stage] = d
	r.StageResults[stage] = res
}

// finish stamps the end time and derives the outcome from err.
func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	if err == nil {
		r.Outcome = OutcomeSuccess
		return
	}
	r.Errors = append(r.Errors, err)
	var se *StageError
	if errors.As(err, &se) {
		r.FailedStage = se.Stage
		if se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	r.Outcome = OutcomeFailed
}

// TotalDocuments sums documents rendered across categories.
func (r *BuildReport) TotalDocuments() int {
	n := 0
	for _, c := range r.Documents {
		n += c
	}
	return n
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s documents=%d pages=%d resources=%d static=%d duration=%s errors=%d outcome=%s",
		r.ID, r.TotalDocuments(), r.Pages, r.Resources, r.StaticFiles,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), r.Outcome)
}
