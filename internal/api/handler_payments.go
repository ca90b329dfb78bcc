package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/parse"
	"water-billing-backend/internal/store"
)

type paymentRequest struct {
	Amount      amountInput         `json:"amount"`
	Status      model.PaymentStatus `json:"status"`
	Notes       string              `json:"notes"`
	PaymentDate string              `json:"paymentDate"` // YYYY-MM-DD, optional
}

type paymentStatusRequest struct {
	Status model.PaymentStatus `json:"status" binding:"required"`
}

// ListClientPayments handles GET /api/clients/:id/payments.
func (h *Handler) ListClientPayments(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	payments, err := h.store.ListPaymentsForClient(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, payments)
}

// CreatePayment handles POST /api/clients/:id/payments. The status
// defaults to paid and the date to now.
func (h *Handler) CreatePayment(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, errInvalidAmount) {
			badRequest(c, "amount", "must be a number with at most two decimals")
			return
		}
		badRequest(c, "", "invalid request")
		return
	}
	if !req.Amount.set {
		badRequest(c, "amount", "is required")
		return
	}
	if req.Status == "" {
		req.Status = model.PaymentPaid
	}

	var paidAt time.Time
	if req.PaymentDate != "" {
		d, err := parse.ParseDate(req.PaymentDate, h.loc, h.now())
		if err != nil {
			badRequest(c, "paymentDate", "must be a date formatted "+parse.DateLayout)
			return
		}
		paidAt = d
	}

	payment, err := h.store.AddPayment(c.Request.Context(), store.NewPayment{
		ClientID:    id,
		Amount:      req.Amount.Decimal,
		Status:      req.Status,
		Notes:       req.Notes,
		PaymentDate: paidAt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, payment)
}

// ListPaymentsByDate handles GET /api/payments?date=YYYY-MM-DD. A missing
// date means today.
func (h *Handler) ListPaymentsByDate(c *gin.Context) {
	day, err := parse.ParseDate(c.Query("date"), h.loc, h.now())
	if err != nil {
		badRequest(c, "date", "must be a date formatted "+parse.DateLayout)
		return
	}
	payments, err := h.store.ListPaymentsByDate(c.Request.Context(), day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, payments)
}

// UpdatePaymentStatus handles PATCH /api/payments/:id/status.
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, err := parse.ParseID(c.Param("id"))
	if err != nil {
		badRequest(c, "id", "must be a positive integer")
		return
	}
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}
	if err := h.store.UpdatePaymentStatus(c.Request.Context(), id, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}
