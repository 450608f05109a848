package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProjectRunningBuild(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	run, err := Project([]Event{
		{BuildID: "b1", Type: TypeBuildStarted, Timestamp: start, Payload: []byte(`{"domain":"example.com","revision":"0123456789abcdef"}`)},
		{BuildID: "b1", Type: TypeStageCompleted, Payload: []byte(`{"stage":"copy_static","result":"success","duration_ms":3}`)},
	})
	require.NoError(t, err)
	require.Equal(t, "running", run.Status)
	require.Equal(t, "example.com", run.Domain)
	require.Equal(t, "0123456789abcdef", run.Revision)
	require.Equal(t, start, run.StartedAt)
	require.Equal(t, []StageCompleted{{Stage: "copy_static", Result: "success", DurationMS: 3}}, run.Stages)
}

func TestProjectFinishedBuild(t *testing.T) {
	run, err := Project([]Event{
		{BuildID: "b1", Type: TypeBuildStarted, Payload: []byte(`{}`)},
		{BuildID: "b1", Type: TypeBuildFinished, Payload: []byte(
			`{"outcome":"failed","documents":{"projects":1,"snippets":2},"pages":3,"duration_ms":1500,"failed_stage":"render_documents","errors":["boom"]}`)},
	})
	require.NoError(t, err)
	require.Equal(t, "failed", run.Status)
	require.Equal(t, 3, run.Documents)
	require.Equal(t, 3, run.Pages)
	require.Equal(t, 1500*time.Millisecond, run.Duration)
	require.Equal(t, "render_documents", run.FailedStage)
	require.Equal(t, []string{"boom"}, run.Errors)
}

func TestProjectRejectsCorruptPayload(t *testing.T) {
	_, err := Project([]Event{{BuildID: "b1", Type: TypeBuildFinished, Payload: []byte(`{`)}})
	require.Error(t, err)
}
