package history

import (
	"encoding/json"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Event types written by the build observer.
const (
	TypeBuildStarted   = "build_started"
	TypeStageCompleted = "stage_completed"
	TypeBuildFinished  = "build_finished"
)

// Event is one stored row.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// BuildStarted is the payload of build_started.
type BuildStarted struct {
	Domain   string `json:"domain"`
	Revision string `json:"revision,omitempty"`
}

// StageCompleted is the payload of stage_completed.
type StageCompleted struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// BuildFinished is the payload of build_finished.
type BuildFinished struct {
	Outcome     string         `json:"outcome"`
	Documents   map[string]int `json:"documents"`
	Pages       int            `json:"pages"`
	Resources   int            `json:"resources"`
	DurationMS  int64          `json:"duration_ms"`
	FailedStage string         `json:"failed_stage,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
}

func marshalPayload(buildID, eventType string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "failed to marshal event payload").
			WithContext("build_id", buildID).
			WithContext("type", eventType).
			Build()
	}
	return payload, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "failed to unmarshal event payload").
			WithContext("build_id", e.BuildID).
			WithContext("type", e.Type).
			Build()
	}
	return nil
}
