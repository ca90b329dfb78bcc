package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/parse"
	"water-billing-backend/internal/store"
)

type consumptionRequest struct {
	Type       model.ConsumptionType `json:"type"`
	Notes      string                `json:"notes"`
	RecordedAt string                `json:"recordedAt"` // YYYY-MM-DD, optional
}

// ListClientConsumption handles GET /api/clients/:id/consumption.
func (h *Handler) ListClientConsumption(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	records, err := h.store.ListConsumptionForClient(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, records)
}

// CreateConsumption handles POST /api/clients/:id/consumption. The type
// defaults to normal.
func (h *Handler) CreateConsumption(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	var req consumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}
	if req.Type == "" {
		req.Type = model.ConsumptionNormal
	}

	var recordedAt time.Time
	if req.RecordedAt != "" {
		d, err := parse.ParseDate(req.RecordedAt, h.loc, h.now())
		if err != nil {
			badRequest(c, "recordedAt", "must be a date formatted "+parse.DateLayout)
			return
		}
		recordedAt = d
	}

	record, err := h.store.AddConsumptionRecord(c.Request.Context(), store.NewConsumption{
		ClientID:   id,
		Type:       req.Type,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, record)
}
