package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"stempelwerk/loyalty/internal/notify"
	"stempelwerk/loyalty/pkg/response"
)

type SSEHandler struct {
	hub *notify.Hub
}

func NewSSEHandler(hub *notify.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream holds the connection open and forwards the caller's notification
// events as server-sent events. The subscription lives exactly as long as
// the connection.
func (h *SSEHandler) Stream(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	events, unregister := h.hub.Register(userID)
	defer unregister()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event.Data)
			return true
		}
	})
}
