package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/pkg/logger"
	"portfolio_dashboard/internal/pkg/metrics"
)

// RouterDeps holds everything SetupRouter wires into the engine.
type RouterDeps struct {
	Logger           *zap.Logger
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	AllowOrigins     []string
	PortfolioHandler *PortfolioHandler
	AccountHandler   *AccountHandler
}

// SetupRouter builds the gin engine with middleware, HTML templates and routes.
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNopMetrics()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(cors.New(corsConfig(deps.AllowOrigins)))
	router.Use(logger.GinMiddleware(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware(deps.Metrics))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/portfolio")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	router.GET("/portfolio", deps.PortfolioHandler.GetPortfolioPage)
	router.POST("/portfolio/refresh", deps.PortfolioHandler.RefreshPortfolioPage)
	router.GET("/account", deps.AccountHandler.GetAccountPage)
	router.GET("/account/:address", deps.AccountHandler.GetAccountPage)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio", deps.PortfolioHandler.GetPortfolio)
		v1.POST("/portfolio/refresh", deps.PortfolioHandler.RefreshPortfolio)
		v1.DELETE("/portfolio", deps.PortfolioHandler.DisconnectPortfolio)
		v1.GET("/accounts/:address", deps.AccountHandler.GetAccount)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cfg
}

// metricsMiddleware counts requests per matched route.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
