package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lpscout/internal/models"
	"lpscout/internal/repository/memory"
	"lpscout/internal/service"
)

type fakeSource struct {
	pools []models.RawPool
	err   error
}

func (f *fakeSource) ListPairs(context.Context) ([]models.RawPool, error) {
	return f.pools, f.err
}

type fixture struct {
	engine  *gin.Engine
	source  *fakeSource
	refresh *service.PoolRefreshService
	query   *service.PoolQueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	src := &fakeSource{}
	f := &fixture{
		source: src,
		refresh: &service.PoolRefreshService{
			Source:  src,
			Store:   store,
			History: service.StaticHistory{Ratio: 1},
		},
		query: &service.PoolQueryService{Store: store, Location: time.UTC},
	}
	r := gin.New()
	r.Use(CORS([]string{"http://127.0.0.1:8080", "http://localhost:8080"}))
	(&TokenHandler{Query: f.query}).Register(r)
	(&RefreshHandler{Service: f.refresh}).Register(r)
	(&HealthHandler{Refresh: f.refresh, Query: f.query}).Register(r)
	RegisterDocs(r)
	f.engine = r
	return f
}

func (f *fixture) do(method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func validRaw(i int, volume float64) models.RawPool {
	return models.RawPool{
		Address:        fmt.Sprintf("%044d", i),
		Name:           fmt.Sprintf("POOL-%d", i),
		CurrentPrice:   models.NewFlexFloat(1.5),
		TradeVolume24h: models.NewFlexFloat(volume),
		Liquidity:      models.NewFlexFloat(1000),
	}
}

func TestListTokens_EmptyCacheIs503(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/tokens", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want=503", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "No data available. Last update: never" {
		t.Fatalf("error=%q", body["error"])
	}
}

func TestListTokens_ReturnsBareArray(t *testing.T) {
	f := newFixture(t)
	f.source.pools = []models.RawPool{validRaw(1, 10), validRaw(2, 20)}
	if _, err := f.refresh.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	w := f.do(http.MethodGet, "/api/tokens", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var pools []models.Pool
	if err := json.Unmarshal(w.Body.Bytes(), &pools); err != nil {
		t.Fatalf("decode: %v body=%s", err, w.Body.String())
	}
	if len(pools) != 2 || pools[0].Name != "POOL-2" {
		t.Fatalf("pools=%+v", pools)
	}
}

func TestListTokens_EmptyUpstreamAfterDataIs503(t *testing.T) {
	f := newFixture(t)
	f.source.pools = []models.RawPool{validRaw(1, 10)}
	if _, err := f.refresh.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	f.source.pools = []models.RawPool{}
	if _, err := f.refresh.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	w := f.do(http.MethodGet, "/api/tokens", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want=503", w.Code)
	}
	if strings.Contains(w.Body.String(), "never") {
		t.Fatalf("body=%s want last update time", w.Body.String())
	}
}

func TestGetStrategy(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/api/tokens/x/strategy", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("empty cache status=%d want=503", w.Code)
	}

	f.source.pools = []models.RawPool{validRaw(1, 2_000_000)}
	if _, err := f.refresh.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if w := f.do(http.MethodGet, "/api/tokens/unknown/strategy", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown status=%d want=404", w.Code)
	}

	w := f.do(http.MethodGet, "/api/tokens/"+fmt.Sprintf("%044d", 1)+"/strategy", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Code int                   `json:"code"`
		Data models.Recommendation `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != 0 || resp.Data.StrategyCard.NumBins != 20 {
		t.Fatalf("resp=%+v", resp)
	}
	// Static history with ratio 1 gives a zero change, so the regime is ranging.
	if resp.Data.Regime != models.RegimeRanging {
		t.Fatalf("regime=%s want=Ranging", resp.Data.Regime)
	}
}

func TestRefreshEndpoints(t *testing.T) {
	f := newFixture(t)
	f.source.pools = []models.RawPool{validRaw(1, 10)}
	w := f.do(http.MethodPost, "/api/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var ok struct {
		Data service.RefreshResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok.Data.Outcome != service.OutcomeOK || ok.Data.Cached != 1 {
		t.Fatalf("result=%+v", ok.Data)
	}

	f.source.err = errors.New("boom")
	if w := f.do(http.MethodPost, "/api/refresh", nil); w.Code != http.StatusBadGateway {
		t.Fatalf("failing refresh status=%d want=502", w.Code)
	}

	w = f.do(http.MethodGet, "/api/refresh/status", nil)
	var st struct {
		Data service.RefreshStatus `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Data.Cycles != 2 || st.Data.ConsecutiveFailures != 1 || st.Data.LastOutcome != service.OutcomeError {
		t.Fatalf("status=%+v", st.Data)
	}
}

func TestReadiness(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz=%d", w.Code)
	}
	if w := f.do(http.MethodGet, "/readyz", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz before refresh=%d want=503", w.Code)
	}
	f.source.pools = []models.RawPool{validRaw(1, 10)}
	if _, err := f.refresh.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if w := f.do(http.MethodGet, "/readyz", nil); w.Code != http.StatusOK {
		t.Fatalf("readyz=%d want=200", w.Code)
	}
	f.source.err = errors.New("down")
	_, _ = f.refresh.Refresh(context.Background())
	if w := f.do(http.MethodGet, "/readyz", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz after failure=%d want=503", w.Code)
	}
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/healthz", map[string]string{"Origin": "http://localhost:8080"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Fatalf("allow-origin=%q", got)
	}
	w = f.do(http.MethodGet, "/healthz", map[string]string{"Origin": "http://evil.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin=%q want empty", got)
	}

	preflight := map[string]string{"Origin": "http://127.0.0.1:8080", "Access-Control-Request-Method": "GET"}
	if w := f.do(http.MethodOptions, "/api/tokens", preflight); w.Code != http.StatusOK {
		t.Fatalf("preflight=%d want=200", w.Code)
	}
	preflight["Origin"] = "http://localhost:3000"
	if w := f.do(http.MethodOptions, "/api/tokens", preflight); w.Code != http.StatusForbidden {
		t.Fatalf("foreign preflight=%d want=403", w.Code)
	}
}

func TestOriginHosts(t *testing.T) {
	got := OriginHosts([]string{"http://localhost:8080/", " https://a.example ", ""})
	if len(got) != 2 || got[0] != "localhost:8080" || got[1] != "a.example" {
		t.Fatalf("hosts=%v", got)
	}
}

func TestDocs(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/docs", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/tokens") {
		t.Fatalf("docs status=%d", w.Code)
	}
}
