package history

import (
	"time"
)

// DefaultLimit is the number of builds Recent returns when no limit is given.
const DefaultLimit = 20

const statusRunning = "running"

// Run summarizes one build reconstructed from its events.
type Run struct {
	BuildID     string
	Domain      string
	Revision    string
	Status      string // running until build_finished is seen, then the outcome
	StartedAt   time.Time
	FinishedAt  time.Time
	Duration    time.Duration
	Documents   int
	Pages       int
	FailedStage string
	Errors      []string
	Stages      []StageCompleted
}

// Project folds the events of a single build into a Run.
func Project(events []Event) (Run, error) {
	var run Run
	for i, e := range events {
		if i == 0 {
			run.BuildID = e.BuildID
			run.StartedAt = e.Timestamp
			run.Status = statusRunning
		}
		switch e.Type {
		case TypeBuildStarted:
			var p BuildStarted
			if err := e.Decode(&p); err != nil {
				return run, err
			}
			run.Domain = p.Domain
			run.Revision = p.Revision
			run.StartedAt = e.Timestamp
		case TypeStageCompleted:
			var p StageCompleted
			if err := e.Decode(&p); err != nil {
				return run, err
			}
			run.Stages = append(run.Stages, p)
		case TypeBuildFinished:
			var p BuildFinished
			if err := e.Decode(&p); err != nil {
				return run, err
			}
			run.Status = p.Outcome
			run.FinishedAt = e.Timestamp
			run.Duration = time.Duration(p.DurationMS) * time.Millisecond
			run.Pages = p.Pages
			run.Documents = 0
			for _, n := range p.Documents {
				run.Documents += n
			}
			run.FailedStage = p.FailedStage
			run.Errors = p.Errors
		}
	}
	return run, nil
}
