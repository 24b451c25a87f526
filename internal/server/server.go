// Package server serves the landing page, the form post endpoint and the JSON
// lead API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-leadform/internal/openapi"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
)

const (
	DefaultShutdownGrace = 10 * time.Second
	DefaultCacheSize     = 16
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrchestrator renders pages through o instead of the default pipeline.
// The server still resolves variants against its theme set.
func WithOrchestrator(o *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		s.pages = o
	}
}

// WithThemes sets the theme set and the theme name pages use.
func WithThemes(themes *render.ThemeSet, name string) Option {
	return func(s *Server) {
		s.themes = themes
		s.themeName = name
	}
}

// WithDefaultVariant selects the variant used when a request names none.
func WithDefaultVariant(variant string) Option {
	return func(s *Server) {
		s.defaultVariant = variant
	}
}

// WithIntake sets where accepted leads go. Without it leads are acknowledged
// and dropped.
func WithIntake(intake lead.Intake) Option {
	return func(s *Server) {
		s.intake = intake
	}
}

// WithNotifier replaces the acknowledgement side effect. Without it each
// accepted lead is logged at info level.
func WithNotifier(notifier lead.Notifier) Option {
	return func(s *Server) {
		s.notifier = notifier
	}
}

// WithObserver attaches a lead observer, typically the Prometheus one.
func WithObserver(observer lead.Observer) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithGatherer sets the registry /metrics exposes.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLocale sets the fallback locale.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithCacheSize bounds the rendered page cache. Zero disables it.
func WithCacheSize(size int) Option {
	return func(s *Server) {
		s.cacheSize = size
	}
}

// WithShutdownGrace bounds how long Serve waits for in-flight requests.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.grace = grace
		}
	}
}

// Server holds the routes and their collaborators.
type Server struct {
	logger         *zap.Logger
	pages          *orchestrator.Orchestrator
	view           render.View
	html           render.Renderer
	themes         *render.ThemeSet
	themeName      string
	defaultVariant string
	intake         lead.Intake
	notifier       lead.Notifier
	observer       lead.Observer
	gatherer       prometheus.Gatherer
	contract       *openapi.Validator
	locale         string
	cacheSize      int
	cache          *lru.Cache[string, []byte]
	grace          time.Duration
	router         *mux.Router
}

// New builds a server. Defaults: the orchestrator defaults (embedded copy,
// vanilla renderer), the brand theme, an intake that accepts immediately and
// the default Prometheus registry.
func New(ctx context.Context, options ...Option) (*Server, error) {
	s := &Server{
		logger:    zap.NewNop(),
		locale:    lead.DefaultLocale,
		cacheSize: DefaultCacheSize,
		grace:     DefaultShutdownGrace,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.notifier == nil {
		s.notifier = logNotifier(s.logger)
	}

	if s.themes == nil {
		themes, err := render.NewThemeSet()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.themes = themes
	}
	if s.pages == nil {
		s.pages = orchestrator.New(orchestrator.WithThemeSelector(s.themes, s.themeName, s.defaultVariant))
	}
	if err := s.pages.Err(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	view, err := s.pages.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.view = view
	html, err := s.pages.Renderer("")
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.html = html

	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	contract, err := openapi.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.contract = contract

	if s.cacheSize > 0 {
		cache, err := lru.New[string, []byte](s.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("server: page cache: %w", err)
		}
		s.cache = cache
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/", s.handlePage).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/leads", s.handleFormPost).Methods(http.MethodPost)
	router.HandleFunc("/api/leads", s.handleAPILead).Methods(http.MethodPost)
	router.HandleFunc("/api/openapi.yaml", s.handleContract).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))),
	).Methods(http.MethodGet, http.MethodHead)

	return router
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr and serves until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		s.logger.Info("http server shutting down", zap.Duration("grace", s.grace))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
