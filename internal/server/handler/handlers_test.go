package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3movement/dealfinder/internal/domain"
	"github.com/m3movement/dealfinder/internal/service"
	"github.com/m3movement/dealfinder/internal/snapshot"
)

func f64(v float64) *float64 { return &v }

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// fixtureServices builds a snapshot + analytics service pair with one
// applied snapshot: two archived runs and a current run with three
// opportunities.
func fixtureServices(t *testing.T) (*service.SnapshotService, *service.AnalyticsService) {
	t.Helper()

	current := domain.RunSnapshot{
		RunID:     3,
		Timestamp: "2026-08-20 12:00:00",
		SwappaProducts: []domain.Listing{
			{Name: "Pixel 8", Source: domain.SourceSwappa, PriceNumeric: 400, MarginPercent: f64(12)},
		},
		NeweggProducts: []domain.Listing{
			{Name: "RTX 4090", Source: domain.SourceNewegg, PriceNumeric: 1500, MarginPercent: f64(30)},
		},
		Opportunities: []domain.Opportunity{
			{BuyProductName: "RTX 4090", BuyPrice: 1500, PotentialProfit: 450, MarginPercent: f64(30)},
			{BuyProductName: "Pixel 8", BuyPrice: 400, PotentialProfit: 48, MarginPercent: f64(12)},
			{BuyProductName: "iPhone 15", BuyPrice: 700, PotentialProfit: 35, MarginPercent: f64(5)},
		},
	}

	doc := snapshot.Document{
		LastUpdated: current.Timestamp,
		RunCount:    3,
		History: domain.RunHistory{
			Runs: []domain.RunSnapshot{
				{RunID: 1, Timestamp: "2026-08-18 12:00:00", TotalSwappa: 2},
				{RunID: 2, Timestamp: "2026-08-19 12:00:00", TotalSwappa: 3},
			},
			Current: &current,
		},
	}

	snapshots := service.NewSnapshotService(nil, nil, nil, nil, service.AlertThresholds{}, discard())
	require.NoError(t, snapshots.Apply(context.Background(), doc))

	analytics := service.NewAnalyticsService(snapshots, nil,
		service.AnalyticsDefaults{MinProfit: 10, MinMargin: 5}, discard())
	return snapshots, analytics
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	snapshots, _ := fixtureServices(t)
	h := NewHealthHandler(snapshots, discard())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["snapshot_ready"])
}

func TestListRunsIncludesCurrent(t *testing.T) {
	snapshots, analytics := fixtureServices(t)
	h := NewRunHandler(analytics, snapshots, discard())

	rec := httptest.NewRecorder()
	h.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total"])

	runs := body["runs"].([]any)
	last := runs[len(runs)-1].(map[string]any)
	assert.Equal(t, true, last["is_current"])
	assert.Equal(t, float64(3), last["run_id"])
}

func TestListRunsLimitKeepsMostRecent(t *testing.T) {
	snapshots, analytics := fixtureServices(t)
	h := NewRunHandler(analytics, snapshots, discard())

	rec := httptest.NewRecorder()
	h.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=2", nil))

	body := decodeBody(t, rec)
	runs := body["runs"].([]any)
	require.Len(t, runs, 2)
	first := runs[0].(map[string]any)
	assert.Equal(t, float64(2), first["run_id"])
}

func TestGetRunByID(t *testing.T) {
	snapshots, analytics := fixtureServices(t)
	h := NewRunHandler(analytics, snapshots, discard())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSnapshotBeforeFirstLoad(t *testing.T) {
	snapshots := service.NewSnapshotService(nil, nil, nil, nil, service.AlertThresholds{}, discard())
	analytics := service.NewAnalyticsService(snapshots, nil, service.AnalyticsDefaults{}, discard())
	h := NewRunHandler(analytics, snapshots, discard())

	rec := httptest.NewRecorder()
	h.GetSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListOpportunitiesRankedDescending(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewOpportunityHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	opps := body["opportunities"].([]any)
	require.Len(t, opps, 3)
	first := opps[0].(map[string]any)
	assert.Equal(t, "RTX 4090", first["buy_product_name"])
}

func TestListOpportunitiesQueryFilters(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewOpportunityHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet,
		"/api/opportunities?min_profit=100&min_margin=20", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])

	rec = httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet,
		"/api/opportunities?min_profit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet,
		"/api/opportunities?order=sideways", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOpportunitiesLimit(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewOpportunityHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet,
		"/api/opportunities?limit=2", nil))

	body := decodeBody(t, rec)
	opps := body["opportunities"].([]any)
	require.Len(t, opps, 2)
	first := opps[0].(map[string]any)
	assert.Equal(t, "RTX 4090", first["buy_product_name"])

	rec = httptest.NewRecorder()
	h.ListOpportunities(rec, httptest.NewRequest(http.MethodGet,
		"/api/opportunities?limit=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewOpportunityHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, 450.0, body["max_profit"].(float64), 1e-9)
	assert.InDelta(t, 30.0, body["max_margin"].(float64), 1e-9)
}

func TestGetSummaryThresholdsAndEmpty(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewOpportunityHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet,
		"/api/summary?min_profit=100&min_margin=20", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, 450.0, body["avg_profit"].(float64), 1e-9)

	rec = httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet,
		"/api/summary?min_profit=10000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet,
		"/api/summary?min_margin=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListListingsBySource(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewListingHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.ListListings(rec, httptest.NewRequest(http.MethodGet, "/api/listings?source=swappa", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, "swappa", body["source"])
}

func TestCompareRunsEndpoint(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewAnalyticsHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.CompareRuns(rec, httptest.NewRequest(http.MethodGet, "/api/compare?run_a=1&run_b=2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.CompareRuns(rec, httptest.NewRequest(http.MethodGet, "/api/compare?run_a=1&run_b=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.CompareRuns(rec, httptest.NewRequest(http.MethodGet, "/api/compare?run_a=1&run_b=42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.CompareRuns(rec, httptest.NewRequest(http.MethodGet, "/api/compare?run_a=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSeriesEndpoint(t *testing.T) {
	_, analytics := fixtureServices(t)
	h := NewAnalyticsHandler(analytics, discard())

	rec := httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest(http.MethodGet, "/api/series?metric=swappa_count", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["points"].([]any), 2)

	rec = httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest(http.MethodGet, "/api/series?metric=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest(http.MethodGet, "/api/series", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
