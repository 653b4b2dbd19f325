package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/portfolio"
	"portfolio_dashboard/internal/app/resolver"
	"portfolio_dashboard/internal/app/view"
	"portfolio_dashboard/internal/domain/entity"
)

// QueryAccount is the query parameter carrying the connected wallet.
const QueryAccount = "account"

// APIPortfolioResponse is the body of the portfolio JSON endpoints.
type APIPortfolioResponse struct {
	Data          view.Dashboard `json:"data"`
	StatusMessage string         `json:"status_message"`
}

// APIErrorResponse is returned by the JSON endpoints on failure.
type APIErrorResponse struct {
	Error         string `json:"error"`
	StatusMessage string `json:"status_message"`
}

// PortfolioHandler serves the portfolio dashboard.
type PortfolioHandler struct {
	registry   *portfolio.Registry
	resolver   *resolver.Resolver
	cluster    string
	renderWait time.Duration
	logger     *zap.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler. Pages wait up to
// renderWait for an in-flight fetch before rendering the loading state.
func NewPortfolioHandler(
	registry *portfolio.Registry,
	res *resolver.Resolver,
	cluster string,
	renderWait time.Duration,
	logger *zap.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		registry:   registry,
		resolver:   res,
		cluster:    cluster,
		renderWait: renderWait,
		logger:     logger.Named("PortfolioHandler"),
	}
}

// GetPortfolioPage renders the dashboard for ?account=.
func (h *PortfolioHandler) GetPortfolioPage(c *gin.Context) {
	account, ok := h.accountOrRenderError(c, false)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "portfolio.html", h.dashboard(c.Request.Context(), account))
}

// RefreshPortfolioPage triggers a manual refresh and redirects back to the dashboard.
func (h *PortfolioHandler) RefreshPortfolioPage(c *gin.Context) {
	account, ok := h.accountOrRenderError(c, false)
	if !ok {
		return
	}
	target := "/portfolio"
	if account.IsConnected() {
		h.registry.Get(account).Refresh()
		target += "?" + url.Values{QueryAccount: {account.String()}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// GetPortfolio returns the dashboard view model as JSON.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	account, ok := h.accountOrRenderError(c, true)
	if !ok {
		return
	}
	d := h.dashboard(c.Request.Context(), account)
	c.JSON(http.StatusOK, APIPortfolioResponse{Data: d, StatusMessage: statusMessage(d)})
}

// RefreshPortfolio triggers a manual refresh and returns the resulting view model.
// Without an account nothing is fetched.
func (h *PortfolioHandler) RefreshPortfolio(c *gin.Context) {
	account, ok := h.accountOrRenderError(c, true)
	if !ok {
		return
	}
	if account.IsConnected() {
		h.registry.Get(account).Refresh()
	}
	d := h.dashboard(c.Request.Context(), account)
	c.JSON(http.StatusOK, APIPortfolioResponse{Data: d, StatusMessage: statusMessage(d)})
}

// DisconnectPortfolio drops the session for ?account=.
func (h *PortfolioHandler) DisconnectPortfolio(c *gin.Context) {
	account, ok := h.accountOrRenderError(c, true)
	if !ok {
		return
	}
	if account.IsConnected() {
		h.registry.Disconnect(account)
	}
	d := view.Build(portfolio.InitialState(), h.cluster)
	c.JSON(http.StatusOK, APIPortfolioResponse{Data: d, StatusMessage: statusMessage(d)})
}

// dashboard builds the view for account, giving an in-flight fetch up to
// renderWait to land.
func (h *PortfolioHandler) dashboard(ctx context.Context, account entity.Account) view.Dashboard {
	if !account.IsConnected() {
		return view.Build(portfolio.InitialState(), h.cluster)
	}
	agg := h.registry.Get(account)

	waitCtx, cancel := context.WithTimeout(ctx, h.renderWait)
	defer cancel()
	state, err := agg.Wait(waitCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.logger.Debug("Render wait interrupted", zap.String("account", account.String()), zap.Error(err))
	}
	return view.Build(state, h.cluster)
}

// accountOrRenderError resolves ?account=. An invalid address is answered
// with 400 and ok == false.
func (h *PortfolioHandler) accountOrRenderError(c *gin.Context, asJSON bool) (entity.Account, bool) {
	address, found, err := h.resolver.ResolveString(c.Query(QueryAccount))
	if err != nil {
		if asJSON {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error(), StatusMessage: "Invalid address format"})
		} else {
			c.HTML(http.StatusBadRequest, "error.html", errorPage{Title: view.TitleDisconnected, Message: "Invalid address format"})
		}
		return "", false
	}
	if !found {
		return "", true
	}
	return address.Account(), true
}

func statusMessage(d view.Dashboard) string {
	switch {
	case !d.Connected:
		return "Wallet not connected."
	case d.Loading:
		return "Portfolio is loading."
	case d.Error != "":
		return d.Error
	default:
		return "Portfolio retrieved successfully."
	}
}
