package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/parse"
	"water-billing-backend/internal/store"
)

type clientRequest struct {
	Name    string             `json:"name"`
	Address string             `json:"address"`
	Status  model.ClientStatus `json:"status"`
}

// clientID reads the :id path parameter, answering 400 when it is unusable.
func clientID(c *gin.Context) (int64, bool) {
	id, err := parse.ParseID(c.Param("id"))
	if err != nil {
		badRequest(c, "id", "must be a positive integer")
		return 0, false
	}
	return id, true
}

// ListClients handles GET /api/clients with an optional ?q= search term.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.store.SearchClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, clients)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}

	client, err := h.store.AddClient(c.Request.Context(), req.Name, req.Address)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, client)
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	client, err := h.store.GetClient(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, client)
}

// UpdateClient handles PUT /api/clients/:id. A missing status keeps the
// current one.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request")
		return
	}
	if req.Status == "" {
		current, err := h.store.GetClient(c.Request.Context(), id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		req.Status = current.Status
	}

	client, err := h.store.UpdateClient(c.Request.Context(), id, store.ClientUpdate{
		Name:    req.Name,
		Address: req.Address,
		Status:  req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, valid := clientID(c)
	if !valid {
		return
	}
	if err := h.store.DeleteClient(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
