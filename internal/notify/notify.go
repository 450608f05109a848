// Package notify announces finished builds on a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/retry"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// BuildEvent is the JSON message published after every build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Documents  int       `json:"documents"`
	DurationMS int64     `json:"duration_ms"`
	Domain     string    `json:"domain"`
	Revision   string    `json:"revision,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventFromReport builds the message for a finished build.
func EventFromReport(r *site.BuildReport, domain string) BuildEvent {
	return BuildEvent{
		BuildID:    r.ID,
		Outcome:    string(r.Outcome),
		Documents:  r.TotalDocuments(),
		DurationMS: r.Duration().Milliseconds(),
		Domain:     domain,
		Revision:   r.Revision,
		Timestamp:  r.End.UTC(),
	}
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, event BuildEvent) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, BuildEvent) error { return nil }
func (Noop) Close() error                              { return nil }

// NATSPublisher publishes events with core NATS.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
	policy  retry.Policy
}

// New returns a NATSPublisher when notifications are configured and Noop
// otherwise.
func New(cfg config.NotifyConfig) (Publisher, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}
	p, err := Connect(cfg.URL, cfg.Subject, cfg.TimeoutDuration())
	if err != nil {
		return nil, err
	}
	return p.WithRetry(retry.FromNotify(cfg)), nil
}

// Connect dials the NATS server at url.
func Connect(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("sitegen"), nats.Timeout(timeout))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	return &NATSPublisher{conn: conn, subject: subject, timeout: timeout, policy: retry.DefaultPolicy()}, nil
}

// WithRetry sets the policy used when a publish or flush fails.
func (p *NATSPublisher) WithRetry(policy retry.Policy) *NATSPublisher {
	p.policy = policy
	return p
}

// Publish sends event and waits for the server to acknowledge the flush,
// retrying under the configured policy.
func (p *NATSPublisher) Publish(ctx context.Context, event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal build event").Build()
	}
	return p.policy.Do(ctx, func(ctx context.Context) error {
		return p.publishOnce(ctx, data)
	})
}

func (p *NATSPublisher) publishOnce(ctx context.Context, data []byte) error {
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to publish build event").
			WithContext("subject", p.subject).
			Build()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to flush build event").
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Observer publishes a BuildEvent when a build completes. Failures are logged
// as warnings.
type Observer struct {
	site.NoopObserver
	publisher Publisher
	domain    string
	logger    *slog.Logger
}

// NewObserver wraps publisher as a build observer.
func NewObserver(publisher Publisher, domain string, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{publisher: publisher, domain: domain, logger: logger}
}

func (o *Observer) OnBuildComplete(r *site.BuildReport) {
	event := EventFromReport(r, o.domain)
	if err := o.publisher.Publish(context.Background(), event); err != nil {
		o.logger.Warn("Failed to publish build notification",
			logfields.BuildID(r.ID),
			logfields.Error(err))
		return
	}
	o.logger.Debug("Published build notification", logfields.BuildID(r.ID), logfields.Outcome(event.Outcome))
}
