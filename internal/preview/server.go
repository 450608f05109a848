package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

const shutdownTimeout = 5 * time.Second

// Builder runs a site build.
type Builder interface {
	Build(ctx context.Context) (*site.BuildReport, error)
}

// buildStatus remembers the outcome of the latest build.
type buildStatus struct {
	mu      sync.RWMutex
	lastErr error
	buildID string
}

func (s *buildStatus) set(report *site.BuildReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if report != nil {
		s.buildID = report.ID
	}
}

func (s *buildStatus) get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildID, s.lastErr
}

// Server is the development server.
type Server struct {
	cfg      *config.Config
	builder  Builder
	hub      *Hub
	status   buildStatus
	gatherer prom.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves metrics from g at /metrics.
func WithGatherer(g prom.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a Server for cfg that rebuilds with builder.
func New(cfg *config.Config, builder Builder, opts ...Option) *Server {
	s := &Server{cfg: cfg, builder: builder, hub: NewHub(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Serve.Host, fmt.Sprint(s.cfg.Serve.Port))
}

// Handler serves the output directory plus the live reload and metrics
// endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	var pages http.Handler = http.FileServer(http.Dir(s.cfg.Paths.Output))
	pages = s.errorPage(pages)
	if s.cfg.Serve.LiveReloadEnabled() {
		mux.Handle("/livereload", s.hub)
		mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			_, _ = w.Write([]byte(Script))
		})
		pages = injectScript(pages)
	}
	mux.Handle("/metrics", metrics.HTTPHandler(s.gatherer))
	mux.Handle("/", pages)

	return noStore(mux)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

var errorPageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Build failed</title></head>
<body>
<h1>Build failed</h1>
<pre>{{.}}</pre>
</body>
</html>
`))

// errorPage answers page requests with the last build error while the site
// is broken. Assets are still served.
func (s *Server) errorPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := s.status.get()
		path := r.URL.Path
		isPage := strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html")
		if err == nil || !isPage {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = errorPageTemplate.Execute(w, err.Error())
	})
}

// Rebuild runs one build and notifies browsers.
func (s *Server) Rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	s.status.set(report, err)
	if report == nil {
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("Rebuild failed", logfields.BuildID(report.ID), logfields.Error(err))
		s.hub.Broadcast("error-" + report.ID)
		return
	}
	s.logger.Info("Site rebuilt", logfields.BuildID(report.ID), logfields.Elapsed(report.Duration()))
	s.hub.Broadcast(report.ID)
}

// watchRoots lists the directories whose changes trigger a rebuild.
func (s *Server) watchRoots() []string {
	roots := []string{s.cfg.Paths.Static, s.cfg.Paths.Templates}
	for _, c := range s.cfg.Categories {
		roots = append(roots, c.Root)
	}
	return roots
}

// Run builds once, then serves and rebuilds on change until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.Rebuild(ctx)

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to listen").
			WithContext("addr", s.Addr()).
			Build()
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	watcher, err := newWatcher(s.watchRoots())
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	deb := newDebouncer(s.cfg.Serve.DebounceDuration())
	defer deb.Stop()

	if interval := s.cfg.Serve.RebuildIntervalDuration(); interval > 0 {
		sched, err := newRebuildScheduler(interval, deb.Trigger)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer func() { _ = sched.Shutdown() }()
		s.logger.Info("Scheduled rebuilds enabled", slog.Duration("interval", interval))
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	s.logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()))

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go rebuildWorker(workerCtx, deb.C, s.Rebuild)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return ferrors.WrapError(err, ferrors.CategoryNetwork, "preview server stopped").Build()
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(srv)
			}
			if relevant(watcher, ev, s.cfg.Paths.Output) {
				s.logger.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				deb.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(srv)
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("Shutting down preview server")
	s.hub.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
