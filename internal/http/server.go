package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/metrics"
	"txboard/internal/middleware/security"
	"txboard/internal/middleware/trace"
	"txboard/internal/ports"
	"txboard/internal/services"
)

// DefaultQueryTimeout bounds each read endpoint's store calls.
const DefaultQueryTimeout = 7 * time.Second

// Service ports consumed by the handlers.
type (
	Seeder interface {
		Seed(ctx context.Context) (int, error)
	}
	TransactionLister interface {
		List(ctx context.Context, p services.ListParams) ([]core.Transaction, error)
	}
	StatisticsProvider interface {
		Summarize(ctx context.Context, month string) (core.Statistics, error)
	}
	HistogramProvider interface {
		Histogram(ctx context.Context, month string) ([]core.PriceBucket, error)
	}
	BreakdownProvider interface {
		Breakdown(ctx context.Context, month string) ([]core.CategoryCount, error)
	}
)

// Deps are the collaborators the server routes to. Pinger, Metrics and
// TrustedProxies are optional.
type Deps struct {
	Seeder       Seeder
	Transactions TransactionLister
	Statistics   StatisticsProvider
	Histogram    HistogramProvider
	Breakdown    BreakdownProvider
	Pinger       ports.Pinger
	Metrics      *metrics.Metrics
	Logger       *applog.Logger
	QueryTimeout time.Duration
	// TrustedProxies are CIDRs, beyond loopback and private ranges, whose
	// forwarded headers are honoured when resolving client IPs.
	TrustedProxies []string
}

// Server wraps http.Server with the API routes.
type Server struct {
	http.Server

	deps         Deps
	logger       *applog.Logger
	queryTimeout time.Duration
	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	timeout := deps.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	s := &Server{
		deps:         deps,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		queryTimeout: timeout,
		startedAt:    time.Now(),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// init-database waits for the dataset download.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	var observer trace.Observer
	var onSuspicious func(*http.Request)
	if s.deps.Metrics != nil {
		observer = s.deps.Metrics
		onSuspicious = func(*http.Request) { s.deps.Metrics.ObserveSuspicious() }
	}
	detector := security.NewDetector(onSuspicious)
	for _, cidr := range s.deps.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", applog.FieldError, err.Error())
		}
	}
	tracer := trace.NewMiddleware(s.logger, detector.ExtractClientIP, observer)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r.Use(tracer.Middleware, detector.Middleware, headers.Middleware)

	r.HandleFunc("/api/init-database", s.handleInitDatabase).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/statistics", s.handleStatistics).Methods(http.MethodGet)
	r.HandleFunc("/api/bar-chart", s.handleBarChart).Methods(http.MethodGet)
	r.HandleFunc("/api/pie-chart", s.handlePieChart).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	// mux skips Use middleware for unmatched requests.
	fallback := func(status int, message string) http.Handler {
		return tracer.Middleware(headers.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = ErrorResponse(status, message).Write(w)
		})))
	}
	r.NotFoundHandler = fallback(http.StatusNotFound, "not found")
	r.MethodNotAllowedHandler = fallback(http.StatusMethodNotAllowed, "method not allowed")
	return r
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}
