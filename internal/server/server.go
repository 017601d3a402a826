// Package server exposes the pool registry over HTTP for the web frontend.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chandlergims/pokestrat/pkg/registry"
)

// standardResponse sends a consistent JSON response
func standardResponse(c *gin.Context, code int, status string, data interface{}, err string) {
	response := gin.H{"status": status}

	if data != nil {
		response["data"] = data
	}

	if err != "" {
		response["error"] = err
	}

	c.JSON(code, response)
}

// PoolHandler handles all pool-related requests
type PoolHandler struct {
	client *registry.Client
}

// NewPoolHandler creates a new PoolHandler
func NewPoolHandler(client *registry.Client) *PoolHandler {
	return &PoolHandler{
		client: client,
	}
}

// NewRouter builds the gin engine with all pool routes registered.
func NewRouter(client *registry.Client) *gin.Engine {
	router := gin.Default()
	h := NewPoolHandler(client)

	api := router.Group("/api")
	{
		api.GET("/pools", h.ListPools)
		api.GET("/pools/:cardID", h.GetPool)
		api.POST("/pools/:cardID/join", h.JoinPool)
		api.POST("/pools/:cardID/leave", h.LeavePool)
		api.GET("/events", h.StreamEvents)
	}

	return router
}

// JoinPool handles requests to join a card's acquisition pool
func (h *PoolHandler) JoinPool(c *gin.Context) {
	cardID := c.Param("cardID")
	var req struct {
		Wallet   string          `json:"wallet" binding:"required"`
		CardData json.RawMessage `json:"card_data,omitempty"`
	}

	if err := c.BindJSON(&req); err != nil {
		standardResponse(c, http.StatusBadRequest, "error", nil, "Invalid request format")
		return
	}

	result, err := h.client.Join(c.Request.Context(), cardID, req.Wallet, req.CardData)
	if err != nil {
		switch {
		case registry.IsAlreadyJoined(err):
			standardResponse(c, http.StatusConflict, "error", nil, "You have already requested this card")
		case registry.IsConflict(err):
			standardResponse(c, http.StatusServiceUnavailable, "error", nil, "Pool is busy, please retry")
		default:
			standardResponse(c, http.StatusInternalServerError, "error", nil, "Failed to join pool")
		}
		return
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}

	standardResponse(c, code, "joined", gin.H{
		"message": "Added to community requests!",
		"pool":    result.Pool,
	}, "")
}

// LeavePool handles requests to withdraw from a pool
func (h *PoolHandler) LeavePool(c *gin.Context) {
	cardID := c.Param("cardID")
	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		standardResponse(c, http.StatusBadRequest, "error", nil, "Invalid request format")
		return
	}

	err := h.client.Leave(c.Request.Context(), cardID, req.Wallet)
	if err != nil {
		switch {
		case registry.IsNotFound(err):
			standardResponse(c, http.StatusNotFound, "error", nil, "Request not found")
		case registry.IsNotMember(err):
			standardResponse(c, http.StatusNotFound, "error", nil, "You have not requested this card")
		case registry.IsConflict(err):
			standardResponse(c, http.StatusServiceUnavailable, "error", nil, "Pool is busy, please retry")
		default:
			standardResponse(c, http.StatusInternalServerError, "error", nil, "Failed to leave pool")
		}
		return
	}

	standardResponse(c, http.StatusOK, "left", gin.H{"message": "Request removed"}, "")
}

// ListPools handles requests for all pools, sorted by demand
func (h *PoolHandler) ListPools(c *gin.Context) {
	pools, err := h.client.ListPools(c.Request.Context())
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, "Failed to list pools")
		return
	}

	standardResponse(c, http.StatusOK, "ok", gin.H{"pools": pools}, "")
}

// GetPool handles requests for a single pool
func (h *PoolHandler) GetPool(c *gin.Context) {
	cardID := c.Param("cardID")

	pool, err := h.client.FindByCardID(c.Request.Context(), cardID)
	if err != nil {
		if registry.IsNotFound(err) {
			standardResponse(c, http.StatusNotFound, "error", nil, "Request not found")
			return
		}
		standardResponse(c, http.StatusInternalServerError, "error", nil, "Failed to get pool")
		return
	}

	standardResponse(c, http.StatusOK, "ok", gin.H{"pool": pool}, "")
}

// StreamEvents forwards the registry change feed to the client as
// Server-Sent Events. Delivery is best-effort: clients that need the
// authoritative state should re-fetch /api/pools on each event.
func (h *PoolHandler) StreamEvents(c *gin.Context) {
	sub, err := h.client.Subscribe(c.Request.Context())
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, "Failed to subscribe to events")
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		}
	})
}
