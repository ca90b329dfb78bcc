package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"water-billing-backend/config"
	"water-billing-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mw.RequestID(), mw.Logger(log), mw.Recovery(log))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limits: a general bucket per client and a much slower one for
	// PIN guesses.
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	loginLimiter := mw.RateLimiter(rate.Limit(cfg.LoginRatePerMin/60), cfg.LoginBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", loginLimiter, h.Login)

		authed := api.Group("")
		authed.Use(mw.RequireSession(h.sessions), mw.FlushOnWrite(cacheStore))

		authed.POST("/logout", h.Logout)
		authed.PUT("/pin", loginLimiter, h.ChangePin)

		authed.GET("/clients", caching, h.ListClients)
		authed.POST("/clients", h.CreateClient)
		authed.GET("/clients/:id", caching, h.GetClient)
		authed.PUT("/clients/:id", h.UpdateClient)
		authed.DELETE("/clients/:id", h.DeleteClient)

		authed.GET("/clients/:id/payments", caching, h.ListClientPayments)
		authed.POST("/clients/:id/payments", h.CreatePayment)
		authed.GET("/clients/:id/consumption", caching, h.ListClientConsumption)
		authed.POST("/clients/:id/consumption", h.CreateConsumption)
		authed.POST("/clients/:id/report", h.ExportClientReport)

		authed.GET("/payments", caching, h.ListPaymentsByDate)
		authed.PATCH("/payments/:id/status", h.UpdatePaymentStatus)

		authed.GET("/dashboard/clients", caching, h.DashboardClients)
		authed.GET("/dashboard/stats", caching, h.DashboardStats)

		authed.GET("/reports/monthly", caching, h.MonthlyReport)
		authed.GET("/reports/payment-status", caching, h.PaymentStatusReport)
		authed.GET("/reports/clients.csv", h.ClientsCSV)
		authed.GET("/reports/jobs/:job", h.ExportStatus)
	}

	return r
}
