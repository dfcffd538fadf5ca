package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"restaurant-api/realtime"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 15 * time.Second

// Stream opens a server-sent event stream. ?topics=orders,kitchen selects
// the initial topics (all by default); the first event carries the
// connection id used to join or leave topics later. Events are dropped
// while disconnected, so clients re-read state after reconnecting.
func (h *Handler) Stream(c *gin.Context) {
	topics := realtime.Topics
	if q := c.Query("topics"); q != "" {
		topics = strings.Split(q, ",")
	}
	conn, err := h.hub.Connect(topics...)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer h.hub.Disconnect(conn.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Render(-1, sse.Event{
		Event: "connected",
		Data:  gin.H{"connection_id": conn.ID, "topics": conn.Topics()},
	})
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-conn.Events():
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{Event: msg.Topic, Id: msg.Event.ID, Data: msg.Event})
			return true
		case <-ticker.C:
			c.Render(-1, sse.Event{Event: "ping", Data: gin.H{"time": time.Now().UTC()}})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// JoinTopic subscribes an open stream to another topic
func (h *Handler) JoinTopic(c *gin.Context) {
	id, topic := c.Param("id"), c.Param("topic")
	if err := h.hub.Join(id, topic); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined topic", "connection_id": id, "topic": topic})
}

func (h *Handler) LeaveTopic(c *gin.Context) {
	id, topic := c.Param("id"), c.Param("topic")
	if err := h.hub.Leave(id, topic); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left topic", "connection_id": id, "topic": topic})
}
