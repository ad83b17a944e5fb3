package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/repositories"
)

// OutboxHandler exposes the mock delivery store for inspection in
// development. Not mounted when a real SMTP sender is configured.
type OutboxHandler struct {
	outbox repositories.OutboxRepository
}

func NewOutboxHandler(outbox repositories.OutboxRepository) *OutboxHandler {
	return &OutboxHandler{outbox: outbox}
}

// @Summary  List captured messages
// @Tags     Outbox
// @Router   /outbox [get]
func (h *OutboxHandler) List(c *gin.Context) {
	msgs := h.outbox.List()
	c.JSON(http.StatusOK, gin.H{"count": len(msgs), "messages": msgs})
}

// @Summary  Clear captured messages
// @Tags     Outbox
// @Router   /outbox [delete]
func (h *OutboxHandler) Clear(c *gin.Context) {
	h.outbox.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "Outbox cleared"})
}
