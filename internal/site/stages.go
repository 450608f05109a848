package site

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StageName identifies a build stage.
type StageName string

// Stages in execution order.
const (
	StageCopyStatic      StageName = "copy_static"
	StageWriteStylesheet StageName = "write_stylesheet"
	StageRenderDocuments StageName = "render_documents"
	StageWriteIndex      StageName = "write_index"
	StageWriteFeed       StageName = "write_feed"
	StageWriteDomain     StageName = "write_domain"
)

// StageOrder lists every stage in the order a build runs them.
var StageOrder = []StageName{
	StageCopyStatic,
	StageWriteStylesheet,
	StageRenderDocuments,
	StageWriteIndex,
	StageWriteFeed,
	StageWriteDomain,
}

// Stage is a discrete unit of work in a build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind classifies why a stage stopped the build.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError wraps the cause of a stage failure.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult is the recorded outcome of one stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFailed   StageResult = "failed"
	StageResultCanceled StageResult = "canceled"
)

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// runStages executes stages in order and stops at the first failure.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
			bs.report.recordStage(st.Name, 0, StageResultCanceled)
			bs.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		}

		bs.observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		result := StageResultSuccess
		var se *StageError
		switch {
		case err == nil:
		case isCancellation(err):
			result = StageResultCanceled
			se = &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
		default:
			result = StageResultFailed
			se = &StageError{Kind: StageErrorFatal, Stage: st.Name, Err: err}
		}

		bs.report.recordStage(st.Name, dur, result)
		bs.observer.OnStageComplete(st.Name, dur, result)

		if se != nil {
			return se
		}
	}
	return nil
}
