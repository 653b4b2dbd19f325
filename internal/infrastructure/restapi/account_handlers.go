package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_dashboard/internal/app/account"
	"portfolio_dashboard/internal/app/resolver"
	"portfolio_dashboard/internal/app/view"
	"portfolio_dashboard/internal/domain/entity"
)

// AccountHandler serves the account detail page.
type AccountHandler struct {
	service  *account.Service
	resolver *resolver.Resolver
	cluster  string
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *account.Service, res *resolver.Resolver, cluster string) *AccountHandler {
	return &AccountHandler{service: service, resolver: res, cluster: cluster}
}

// GetAccountPage renders balance, tokens and transactions for :address.
func (h *AccountHandler) GetAccountPage(c *gin.Context) {
	address, status, err := h.resolve(c)
	if status != http.StatusOK {
		msg := view.AccountErrorText
		if err != nil {
			msg = "Invalid address format"
		}
		c.HTML(status, "error.html", errorPage{Title: view.TitleConnected, Message: msg})
		return
	}
	detail := h.service.Load(c.Request.Context(), address)
	c.HTML(http.StatusOK, "account.html", view.BuildAccount(detail, h.cluster))
}

// GetAccount returns the account detail view model as JSON.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	address, status, err := h.resolve(c)
	if status != http.StatusOK {
		resp := APIErrorResponse{Error: view.AccountErrorText, StatusMessage: view.AccountErrorText}
		if err != nil {
			resp = APIErrorResponse{Error: err.Error(), StatusMessage: "Invalid address format"}
		}
		c.JSON(status, resp)
		return
	}
	detail := h.service.Load(c.Request.Context(), address)
	c.JSON(http.StatusOK, view.BuildAccount(detail, h.cluster))
}

// resolve maps the route params through the resolver: 404 when the address
// is absent, 400 when it is malformed.
func (h *AccountHandler) resolve(c *gin.Context) (entity.Address, int, error) {
	params := make(map[string]any, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	address, found, err := h.resolver.Resolve(params)
	switch {
	case err != nil:
		return "", http.StatusBadRequest, err
	case !found:
		return "", http.StatusNotFound, nil
	default:
		return address, http.StatusOK, nil
	}
}
