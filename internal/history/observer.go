package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

const appendTimeout = 5 * time.Second

var _ site.BuildObserver = (*Observer)(nil)

// Observer appends build lifecycle events to a Store. Storage failures are
// logged and never fail the build.
type Observer struct {
	store  *Store
	domain string
	logger *slog.Logger

	mu      sync.Mutex
	buildID string
}

// NewObserver returns an Observer writing to store.
func NewObserver(store *Store, domain string, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{store: store, domain: domain, logger: logger}
}

func (o *Observer) OnBuildStart(r *site.BuildReport) {
	o.mu.Lock()
	o.buildID = r.ID
	o.mu.Unlock()
	o.append(r.ID, TypeBuildStarted, BuildStarted{Domain: o.domain, Revision: r.Revision})
}

func (o *Observer) OnStageStart(site.StageName) {}

func (o *Observer) OnStageComplete(stage site.StageName, d time.Duration, res site.StageResult) {
	o.mu.Lock()
	id := o.buildID
	o.mu.Unlock()
	o.append(id, TypeStageCompleted, StageCompleted{
		Stage:      string(stage),
		Result:     string(res),
		DurationMS: d.Milliseconds(),
	})
}

func (o *Observer) OnBuildComplete(r *site.BuildReport) {
	errs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		errs = append(errs, err.Error())
	}
	o.append(r.ID, TypeBuildFinished, BuildFinished{
		Outcome:     string(r.Outcome),
		Documents:   r.Documents,
		Pages:       r.Pages,
		Resources:   r.Resources,
		DurationMS:  r.Duration().Milliseconds(),
		FailedStage: string(r.FailedStage),
		Errors:      errs,
	})
}

func (o *Observer) append(buildID, eventType string, v any) {
	payload, err := marshalPayload(buildID, eventType, v)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		err = o.store.Append(ctx, buildID, eventType, payload, nil)
	}
	if err != nil {
		o.logger.Warn("Failed to record build event",
			logfields.BuildID(buildID),
			slog.String("type", eventType),
			logfields.Error(err))
	}
}
