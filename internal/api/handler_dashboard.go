package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"water-billing-backend/internal/export"
	"water-billing-backend/internal/parse"
	"water-billing-backend/internal/store"
)

const defaultReportMonths = 6

// derivedClients loads the dashboard rows narrowed by ?filter= and ?q=.
func (h *Handler) derivedClients(c *gin.Context) ([]store.ClientWithStatus, bool) {
	filter, valid := store.ParseStatusFilter(c.Query("filter"))
	if !valid {
		badRequest(c, "filter", "must be one of all, debt, paid, excess")
		return nil, false
	}
	rows, err := h.store.ClientsWithDerivedStatus(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return store.MatchClients(store.FilterClients(rows, filter), c.Query("q")), true
}

// DashboardClients handles GET /api/dashboard/clients.
func (h *Handler) DashboardClients(c *gin.Context) {
	rows, valid := h.derivedClients(c)
	if !valid {
		return
	}
	ok(c, http.StatusOK, rows)
}

// DashboardStats handles GET /api/dashboard/stats.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.store.ComputeStatistics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

// MonthlyReport handles GET /api/reports/monthly?months=N.
func (h *Handler) MonthlyReport(c *gin.Context) {
	months, err := parse.ParseMonths(c.Query("months"), defaultReportMonths)
	if err != nil {
		badRequest(c, "months", "must be an integer")
		return
	}
	totals, err := h.store.MonthlyPayments(c.Request.Context(), months)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, totals)
}

// PaymentStatusReport handles GET /api/reports/payment-status.
func (h *Handler) PaymentStatusReport(c *gin.Context) {
	summary, err := h.store.PaymentStatusSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

// ClientsCSV handles GET /api/reports/clients.csv.
func (h *Handler) ClientsCSV(c *gin.Context) {
	rows, valid := h.derivedClients(c)
	if !valid {
		return
	}

	name := fmt.Sprintf("clients_%s.csv", h.now().In(h.loc).Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := export.WriteClientsCSV(c.Writer, rows); err != nil {
		h.log.Error("failed to write clients csv", zap.Error(err))
		_ = c.Error(err)
	}
}

// ExportClientReport handles POST /api/clients/:id/report.
func (h *Handler) ExportClientReport(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	if h.exports == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "report export is disabled"})
		return
	}
	if _, err := h.store.GetClient(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	jobID, err := h.exports.Dispatch(id)
	if errors.Is(err, export.ErrQueueFull) {
		c.Header("Retry-After", "5")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusAccepted, gin.H{"jobId": jobID})
}

// ExportStatus handles GET /api/reports/jobs/:job.
func (h *Handler) ExportStatus(c *gin.Context) {
	if h.exports == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "report export is disabled"})
		return
	}
	status, found := h.exports.Status(c.Param("job"))
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "export job not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	body := gin.H{"status": "ok", "sessions": h.sessions.Active()}
	if h.refresh != nil {
		if snap, found := h.refresh.Last(); found {
			body["lastRefresh"] = snap.At
			body["stats"] = snap.Stats
		}
	}
	c.JSON(http.StatusOK, body)
}
