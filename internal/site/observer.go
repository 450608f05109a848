package site

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// BuildObserver receives callbacks around the build lifecycle. Observers are
// called synchronously from the building goroutine.
type BuildObserver interface {
	OnBuildStart(report *BuildReport)
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver ignores every callback.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(*BuildReport)                             {}
func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                          {}

// MultiObserver fans callbacks out in order.
type MultiObserver []BuildObserver

func (m MultiObserver) OnBuildStart(r *BuildReport) {
	for _, o := range m {
		o.OnBuildStart(r)
	}
}

func (m MultiObserver) OnStageStart(s StageName) {
	for _, o := range m {
		o.OnStageStart(s)
	}
}

func (m MultiObserver) OnStageComplete(s StageName, d time.Duration, res StageResult) {
	for _, o := range m {
		o.OnStageComplete(s, d, res)
	}
}

func (m MultiObserver) OnBuildComplete(r *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(r)
	}
}

// RecorderObserver adapts a metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (RecorderObserver) OnBuildStart(*BuildReport) {}
func (RecorderObserver) OnStageStart(StageName)    {}

func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveStageDuration(string(stage), d)
	r.Recorder.IncStageResult(string(stage), resultLabel(res))
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.Duration())
	r.Recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	for category, n := range report.Documents {
		r.Recorder.AddDocumentsRendered(category, n)
	}
}

func resultLabel(res StageResult) metrics.ResultLabel {
	switch res {
	case StageResultSuccess:
		return metrics.ResultSuccess
	case StageResultCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

// LoggingObserver writes lifecycle events to a slog.Logger.
type LoggingObserver struct{ Logger *slog.Logger }

func (l LoggingObserver) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LoggingObserver) OnBuildStart(r *BuildReport) {
	l.logger().Info("Build started", logfields.BuildID(r.ID), logfields.Revision(r.Revision))
}

func (l LoggingObserver) OnStageStart(s StageName) {
	l.logger().Debug("Stage started", logfields.Stage(string(s)))
}

func (l LoggingObserver) OnStageComplete(s StageName, d time.Duration, res StageResult) {
	level := slog.LevelDebug
	if res != StageResultSuccess {
		level = slog.LevelWarn
	}
	l.logger().Log(context.Background(), level, "Stage completed",
		logfields.Stage(string(s)), logfields.Elapsed(d), logfields.Outcome(string(res)))
}

func (l LoggingObserver) OnBuildComplete(r *BuildReport) {
	attrs := []any{
		logfields.BuildID(r.ID),
		logfields.Outcome(string(r.Outcome)),
		logfields.Documents(r.TotalDocuments()),
		logfields.Elapsed(r.Duration()),
	}
	categories := make([]string, 0, len(r.Documents))
	for c := range r.Documents {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		attrs = append(attrs, slog.Int("documents_"+c, r.Documents[c]))
	}
	if r.Outcome == OutcomeSuccess {
		l.logger().Info("Build completed", attrs...)
		return
	}
	attrs = append(attrs, logfields.Stage(string(r.FailedStage)))
	l.logger().Warn("Build did not complete", attrs...)
}
