package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/metrics"
	"txboard/internal/services"
	"txboard/internal/storage/memory"
	"txboard/internal/storage/storagetest"
)

type fakeSeeder struct {
	n   int
	err error
}

func (f fakeSeeder) Seed(context.Context) (int, error) { return f.n, f.err }

type failingStore struct{}

var errStore = errors.New("store exploded: secret detail")

func (failingStore) FindTransactions(context.Context, core.TransactionQuery) ([]core.Transaction, error) {
	return nil, errStore
}
func (failingStore) SumPrice(context.Context, core.DateRange) (float64, error) { return 0, errStore }
func (failingStore) CountBySold(context.Context, core.DateRange, bool) (int64, error) {
	return 0, errStore
}
func (failingStore) PriceHistogram(context.Context, core.DateRange) ([]core.PriceBucket, error) {
	return nil, errStore
}
func (failingStore) CategoryCounts(context.Context, core.DateRange) ([]core.CategoryCount, error) {
	return nil, errStore
}
func (failingStore) Ping(context.Context) error { return errStore }

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New(storagetest.Fixture()...)
	return NewServer(":0", Deps{
		Seeder:       fakeSeeder{n: 8},
		Transactions: services.NewTransactionQueryService(store),
		Statistics:   services.NewStatisticsService(store, nil, nil),
		Histogram:    services.NewHistogramService(store, nil, nil),
		Breakdown:    services.NewCategoryBreakdownService(store, nil, nil),
		Pinger:       store,
		Metrics:      metrics.New(),
		QueryTimeout: time.Second,
	}), store
}

func newFailingServer() *Server {
	var fs failingStore
	return NewServer(":0", Deps{
		Seeder:       fakeSeeder{err: errors.New("HTTP 503")},
		Transactions: services.NewTransactionQueryService(fs),
		Statistics:   services.NewStatisticsService(fs, nil, nil),
		Histogram:    services.NewHistogramService(fs, nil, nil),
		Breakdown:    services.NewCategoryBreakdownService(fs, nil, nil),
		Pinger:       fs,
	})
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestInitDatabase(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(t, srv, "/api/init-database")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Database initialized successfully"}`, rr.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestTransactionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/transactions?month=2022-03&search=gold")
	require.Equal(t, http.StatusOK, rr.Code)

	var txs []core.Transaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "Gold Ring", txs[0].Title)
	assert.Contains(t, rr.Body.String(), `"dateOfSale":"2022-03-20T00:00:00Z"`)

	rr = get(t, srv, "/api/transactions?month=2022-03&page=2&perPage=4")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txs))
	assert.Len(t, txs, 2)
}

func TestEmptyResultsAreArrays(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{
		"/api/transactions",
		"/api/transactions?month=2019-01",
		"/api/transactions?month=2022-03&search=nothing-matches",
		"/api/bar-chart?month=bad",
		"/api/pie-chart",
	} {
		rr := get(t, srv, target)
		require.Equal(t, http.StatusOK, rr.Code, target)
		assert.Equal(t, "[]\n", rr.Body.String(), target)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/statistics?month=2022-03")
	require.Equal(t, http.StatusOK, rr.Code)

	var st core.Statistics
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.InDelta(t, 2949.94, st.TotalSaleAmount, 1e-9)
	assert.Equal(t, int64(4), st.TotalSoldItems)
	assert.Equal(t, int64(2), st.TotalUnsoldItems)

	rr = get(t, srv, "/api/statistics")
	assert.JSONEq(t, `{"totalSaleAmount":0,"totalSoldItems":0,"totalUnsoldItems":0}`, rr.Body.String())
}

func TestBarChartEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/bar-chart?month=2022-03")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[
		{"bucketLabel":"0","count":2},
		{"bucketLabel":"100","count":1},
		{"bucketLabel":"300","count":1},
		{"bucketLabel":"900","count":1},
		{"bucketLabel":"901-above","count":1}
	]`, rr.Body.String())
}

func TestPieChartEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/pie-chart?month=2022-03")
	require.Equal(t, http.StatusOK, rr.Code)

	var counts []core.CategoryCount
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counts))
	assert.ElementsMatch(t, []core.CategoryCount{
		{Category: "men's clothing", Count: 1},
		{Category: "jewelery", Count: 2},
		{Category: "electronics", Count: 2},
		{Category: "women's clothing", Count: 1},
	}, counts)
}

func TestFailuresUseFixedMessages(t *testing.T) {
	srv := newFailingServer()

	tests := []struct {
		target string
		body   string
	}{
		{"/api/init-database", `{"error":"Error initializing database"}`},
		{"/api/transactions?month=2022-03", `{"error":"Error fetching transactions"}`},
		{"/api/statistics?month=2022-03", `{"error":"Error fetching statistics"}`},
		{"/api/bar-chart?month=2022-03", `{"error":"Error fetching bar chart data"}`},
		{"/api/pie-chart?month=2022-03", `{"error":"Error fetching pie chart data"}`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, srv, tt.target)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "secret")
		})
	}
}

func TestInvalidMonthNeverFails(t *testing.T) {
	srv := newFailingServer()

	rr := get(t, srv, "/api/statistics?month=2022-3")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = get(t, srv, "/api/transactions?month=")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/statistics?month=2022-03"},
		{http.MethodDelete, "/api/transactions"},
		{http.MethodPut, "/api/init-database"},
		{http.MethodPost, "/healthz"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, strings.NewReader("{}")))
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.JSONEq(t, `{"error":"method not allowed"}`, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestHealthReadyAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = get(t, srv, "/readyz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"store":"ok"}}`, rr.Body.String())

	get(t, srv, "/api/statistics?month=2022-03")
	rr = get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `txboard_http_requests_total{code="200",method="GET",route="/api/statistics"} 1`)

	rr = get(t, newFailingServer(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"store unavailable"}`, rr.Body.String())
}

func TestResponsesCarryTraceAndSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/pie-chart?month=2022-03")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestTrustedProxiesResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		want    string
	}{
		{"untrusted peer", nil, "203.0.113.7"},
		{"configured proxy", []string{"203.0.113.0/24"}, "198.51.100.1"},
		{"invalid CIDR ignored", []string{"not-a-cidr"}, "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := applog.New(applog.Config{Level: slog.LevelInfo, Handler: slog.NewJSONHandler(&buf, nil)})
			store := memory.New(storagetest.Fixture()...)
			srv := NewServer(":0", Deps{
				Seeder:         fakeSeeder{},
				Transactions:   services.NewTransactionQueryService(store),
				Statistics:     services.NewStatisticsService(store, nil, nil),
				Histogram:      services.NewHistogramService(store, nil, nil),
				Breakdown:      services.NewCategoryBreakdownService(store, nil, nil),
				Logger:         logger,
				TrustedProxies: tt.proxies,
			})

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.RemoteAddr = "203.0.113.7:4000"
			req.Header.Set("X-Forwarded-For", "198.51.100.1")
			srv.Handler.ServeHTTP(httptest.NewRecorder(), req)

			var completed map[string]any
			for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
				var rec map[string]any
				require.NoError(t, json.Unmarshal(line, &rec))
				if rec["msg"] == "HTTP request completed" {
					completed = rec
				}
			}
			require.NotNil(t, completed)
			assert.Equal(t, tt.want, completed[applog.FieldClientIP])
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, srv.Shutdown(ctx))
}
