package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"water-billing-backend/internal/metrics"
	"water-billing-backend/internal/mw"
)

type loginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds of inactivity
}

// Login handles POST /api/login: a correct PIN opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}

	valid, err := h.store.VerifyPin(c.Request.Context(), req.Pin)
	if err != nil {
		h.respondError(c, err)
		return
	}
	metrics.ObserveLogin(valid)
	if !valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
		return
	}

	ok(c, http.StatusOK, h.newSession())
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Close(c.GetString(mw.SessionKey))
	c.Status(http.StatusNoContent)
}

type changePinRequest struct {
	CurrentPin string `json:"currentPin" binding:"required"`
	NewPin     string `json:"newPin" binding:"required"`
}

// ChangePin handles PUT /api/pin. Every open session ends; the caller gets
// a fresh one.
func (h *Handler) ChangePin(c *gin.Context) {
	var req changePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}

	if err := h.store.ChangePin(c.Request.Context(), req.CurrentPin, req.NewPin); err != nil {
		h.respondError(c, err)
		return
	}

	h.sessions.CloseAll()
	ok(c, http.StatusOK, h.newSession())
}

func (h *Handler) newSession() sessionResponse {
	return sessionResponse{
		Token:     h.sessions.Open(),
		ExpiresIn: int(h.sessions.TTL().Seconds()),
	}
}
