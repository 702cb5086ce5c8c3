package http

import (
	"context"
	"net/http"
	"time"

	"txboard/internal/core"
	applog "txboard/internal/log"
)

// Fixed response messages. Failures never carry error details.
const (
	msgInitialized      = "Database initialized successfully"
	errInitDatabase     = "Error initializing database"
	errFetchTx          = "Error fetching transactions"
	errFetchStatistics  = "Error fetching statistics"
	errFetchBarChart    = "Error fetching bar chart data"
	errFetchPieChart    = "Error fetching pie chart data"
	errStoreUnavailable = "store unavailable"
)

func (s *Server) handleInitDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := s.deps.Seeder.Seed(ctx)
	if err != nil {
		s.fail(ctx, w, err, applog.OpSeed, errInitDatabase, nil)
		return
	}
	applog.FromContext(ctx).DebugContext(ctx, "Seed request completed", applog.FieldRecords, n)
	s.write(ctx, w, MessageResponse(msgInitialized))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	params := ParseListParams(r.URL.Query())
	txs, err := s.deps.Transactions.List(ctx, params)
	if err != nil {
		page := core.ParsePage(params.Page, params.PerPage)
		s.fail(ctx, w, err, applog.OpList, errFetchTx,
			applog.NewFields().WithListQuery(params.Month, params.Search, page.Number, page.PerPage))
		return
	}
	s.write(ctx, w, NewJSONResponse().Body(txs))
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	month := ParseMonthParam(r.URL.Query())
	st, err := s.deps.Statistics.Summarize(ctx, month)
	if err != nil {
		s.fail(ctx, w, err, applog.OpStatistics, errFetchStatistics, applog.NewFields().WithMonth(month))
		return
	}
	s.write(ctx, w, NewJSONResponse().Body(st))
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	month := ParseMonthParam(r.URL.Query())
	buckets, err := s.deps.Histogram.Histogram(ctx, month)
	if err != nil {
		s.fail(ctx, w, err, applog.OpHistogram, errFetchBarChart, applog.NewFields().WithMonth(month))
		return
	}
	s.write(ctx, w, NewJSONResponse().Body(buckets))
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	month := ParseMonthParam(r.URL.Query())
	counts, err := s.deps.Breakdown.Breakdown(ctx, month)
	if err != nil {
		s.fail(ctx, w, err, applog.OpBreakdown, errFetchPieChart, applog.NewFields().WithMonth(month))
		return
	}
	s.write(ctx, w, NewJSONResponse().Body(counts))
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.write(r.Context(), w, NewJSONResponse().Body(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}))
}

// handleReady pings the store when one is wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	if s.deps.Pinger != nil {
		if err := s.deps.Pinger.Ping(ctx); err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
				WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			s.write(ctx, w, ServiceUnavailableError(errStoreUnavailable))
			return
		}
		checks["store"] = "ok"
	}
	s.write(ctx, w, NewJSONResponse().Body(map[string]any{
		"status": "ready",
		"checks": checks,
	}))
}

// fail logs the full error and writes only the fixed message.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error, op, message string, fields applog.LogFields) {
	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogError(ctx, message, err, applog.ComponentHTTP, op, fields)
	s.write(ctx, w, InternalServerError(message))
}

func (s *Server) write(ctx context.Context, w http.ResponseWriter, b *JSONResponseBuilder) {
	if err := b.Write(w); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to write response", applog.FieldError, err)
	}
}
