package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"water-billing-backend/internal/export"
	"water-billing-backend/internal/metrics"
	"water-billing-backend/internal/mw"
	"water-billing-backend/internal/refresh"
	"water-billing-backend/internal/session"
	"water-billing-backend/internal/store"
)

// Exporter queues client report exports.
type Exporter interface {
	Dispatch(clientID int64) (string, error)
	Status(id string) (export.JobStatus, bool)
}

// Snapshotter exposes the last dashboard refresh.
type Snapshotter interface {
	Last() (refresh.Snapshot, bool)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *session.Manager
	exports  Exporter
	refresh  Snapshotter
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
}

// NewHandler creates a new API handler. exports and snapshots may be nil
// when the corresponding background component is disabled.
func NewHandler(s store.Store, sessions *session.Manager, exports Exporter, snapshots Snapshotter, loc *time.Location, log *zap.Logger) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		exports:  exports,
		refresh:  snapshots,
		loc:      loc,
		now:      time.Now,
		log:      log,
	}
}

// respondError maps a store outcome to an HTTP response.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.ObserveOutcome("validation")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "violations": ve.Violations})
	case errors.Is(err, store.ErrNotFound):
		metrics.ObserveOutcome("not_found")
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrHasPayments):
		metrics.ObserveOutcome("conflict")
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrWrongPin):
		metrics.ObserveOutcome("unauthorized")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		metrics.ObserveOutcome("error")
		_ = c.Error(err)
		h.log.Error("request failed", zap.String("request_id", c.GetString(mw.RequestIDKey)), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequest rejects a request whose shape or parameters are unusable.
func badRequest(c *gin.Context, field, reason string) {
	metrics.ObserveOutcome("validation")
	if field == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "violations": gin.H{field: reason}})
}

func ok(c *gin.Context, status int, body any) {
	metrics.ObserveOutcome("ok")
	c.JSON(status, body)
}
