package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/account"
	"portfolio_dashboard/internal/app/portfolio"
	"portfolio_dashboard/internal/app/resolver"
	"portfolio_dashboard/internal/app/view"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/datasource"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/solanaaddr"
)

const wallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

// countingSource counts fetches and can be switched to fail.
type countingSource struct {
	datasource.MockSource
	fetches chan struct{}
	fail    bool
}

func (s *countingSource) FetchPortfolio(ctx context.Context, a entity.Account) (entity.PortfolioSnapshot, error) {
	s.fetches <- struct{}{}
	if s.fail {
		return entity.PortfolioSnapshot{}, errors.New("rpc down")
	}
	return s.MockSource.FetchPortfolio(ctx, a)
}

type testServer struct {
	router   *gin.Engine
	source   *countingSource
	registry *portfolio.Registry
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	src := &countingSource{fetches: make(chan struct{}, 64)}
	registry := portfolio.NewRegistry(src, zap.NewNop(), m, time.Minute)
	t.Cleanup(registry.Close)
	res := resolver.New(solanaaddr.NewValidator(), zap.NewNop(), m, time.Minute)

	router, err := SetupRouter(RouterDeps{
		Logger:           zap.NewNop(),
		Metrics:          m,
		Gatherer:         reg,
		AllowOrigins:     []string{"*"},
		PortfolioHandler: NewPortfolioHandler(registry, res, "devnet", 2*time.Second, zap.NewNop()),
		AccountHandler:   NewAccountHandler(account.NewService(src, zap.NewNop(), 10), res, "devnet"),
	})
	require.NoError(t, err)
	return &testServer{router: router, source: src, registry: registry, metrics: m}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_RootRedirects(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portfolio", w.Header().Get("Location"))
}

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPortfolioPage_DisconnectedShowsPrompt(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/portfolio")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), view.TitleDisconnected)
	assert.Contains(t, w.Body.String(), view.ConnectPrompt)
	assert.Empty(t, s.source.fetches)
}

func TestPortfolioPage_MockScenario(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/portfolio?account="+wallet)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, view.TitleConnected)
	assert.Contains(t, body, "2500.00 SOL")
	assert.Contains(t, body, "501000000.00 USD")
	assert.Contains(t, body, "Current Network: devnet")
	assert.Contains(t, body, "USDC")
	assert.Contains(t, body, "EPjF..Dt1v")
	assert.Contains(t, body, "1000000 tokens")
}

func TestPortfolioPage_InvalidAddress(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/portfolio?account=not-an-address")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid address format")
}

func TestPortfolioAPI(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/portfolio?account="+wallet)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[APIPortfolioResponse](t, w)
	assert.Equal(t, "ready", resp.Data.Status)
	assert.Equal(t, "2500.00 SOL", resp.Data.Balance)
	assert.Equal(t, "501000000.00 USD", resp.Data.TotalValue)
	assert.Len(t, resp.Data.Tokens, 2)
	assert.Equal(t, "Portfolio retrieved successfully.", resp.StatusMessage)
}

func TestPortfolioAPI_InvalidAddress(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/portfolio?account=0OIl")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[APIErrorResponse](t, w)
	assert.Contains(t, resp.Error, entity.ErrInvalidAddressFormat.Error())
}

func TestPortfolioAPI_RefreshWithoutAccountFetchesNothing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/v1/portfolio/refresh")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[APIPortfolioResponse](t, w)
	assert.False(t, resp.Data.Connected)
	assert.Empty(t, s.source.fetches)
	assert.Zero(t, s.registry.Len())
}

func TestPortfolioAPI_RefreshIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	first := decode[APIPortfolioResponse](t, s.do(http.MethodGet, "/api/v1/portfolio?account="+wallet))
	second := decode[APIPortfolioResponse](t, s.do(http.MethodPost, "/api/v1/portfolio/refresh?account="+wallet))

	assert.Equal(t, first.Data, second.Data)
	assert.Len(t, s.source.fetches, 2)
}

func TestPortfolioAPI_FailureKeepsDataWithBanner(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/portfolio?account="+wallet)

	s.source.fail = true
	resp := decode[APIPortfolioResponse](t, s.do(http.MethodPost, "/api/v1/portfolio/refresh?account="+wallet))

	assert.Equal(t, "error", resp.Data.Status)
	assert.Equal(t, portfolio.ErrorMessage, resp.Data.Error)
	assert.Equal(t, "2500.00 SOL", resp.Data.Balance)
	assert.Equal(t, portfolio.ErrorMessage, resp.StatusMessage)
}

func TestPortfolioAPI_Disconnect(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/portfolio?account="+wallet)
	require.Equal(t, 1, s.registry.Len())

	w := s.do(http.MethodDelete, "/api/v1/portfolio?account="+wallet)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, s.registry.Len())
	assert.False(t, decode[APIPortfolioResponse](t, w).Data.Connected)
}

func TestRefreshPage_Redirects(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/portfolio/refresh?account="+wallet)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portfolio?account="+wallet, w.Header().Get("Location"))

	w = s.do(http.MethodPost, "/portfolio/refresh")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portfolio", w.Header().Get("Location"))
}

func TestAccountPage(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/account/"+wallet)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "9WzD..AWWM")
	assert.Contains(t, body, "2.5 SOL")
	assert.Contains(t, body, "Transaction History")
	assert.Contains(t, body, view.NoTransactions)
}

func TestAccountPage_InvalidAndMissing(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/account/xyz")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid address format")

	w = s.do(http.MethodGet, "/account")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), view.AccountErrorText)
}

func TestAccountAPI(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/accounts/"+wallet)
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[view.AccountPage](t, w)
	assert.Equal(t, wallet, page.Address)
	assert.Equal(t, "2.5 SOL", page.Balance)
	assert.Len(t, page.Tokens, 2)

	w = s.do(http.MethodGet, "/api/v1/accounts/bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/healthz")

	w := s.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `test_http_requests_total{route="/healthz",status="200"} 1`))
}
