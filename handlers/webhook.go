package handlers

import (
	"net/http"

	"stayflow/services/proxy"
	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// WebhookHandler is the chat-platform ingress feeding the coalescing proxy.
type WebhookHandler struct {
	Proxy proxy.Service
}

func NewWebhookHandler(svc proxy.Service) *WebhookHandler {
	return &WebhookHandler{Proxy: svc}
}

// HandleChatEvent handles POST /webhook/chat. It acknowledges as soon as
// the event is accepted by the proxy; forwarding happens out of band.
func (h *WebhookHandler) HandleChatEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable body", err.Error())
		return
	}

	if err := h.Proxy.HandleEvent(c.Request.Context(), body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
