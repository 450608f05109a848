package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("write_index", time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("write_index", ResultCanceled)
	r.IncBuildOutcome(OutcomeCanceled)
	r.AddDocumentsRendered("snippets", 2)
}
