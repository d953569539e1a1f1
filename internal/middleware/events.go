package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edukita/lms-backend/internal/events"
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/ssedata"
)

// FlushSSEEvents delivers the events buffered during the request once the
// handler chain has finished, i.e. after the enclosing transaction committed.
// With a bus configured the events go through it and come back via the
// forwarder, so every instance (this one included) delivers them exactly once.
func FlushSSEEvents(log *logger.Logger, hub *sse.SSEHub, bus events.Bus) gin.HandlerFunc {
	flushLog := log.With("middleware", "FlushSSEEvents")
	return func(c *gin.Context) {
		c.Next()

		ssd := ssedata.GetSSEData(c.Request.Context())
		if ssd == nil || len(ssd.Messages) == 0 {
			return
		}
		for _, msg := range ssd.Messages {
			if bus == nil {
				hub.Broadcast(msg)
				continue
			}
			if err := bus.Publish(c.Request.Context(), msg); err != nil {
				flushLog.Warn("Failed to publish event to bus; broadcasting locally", "error", err, "event", msg.Event)
				hub.Broadcast(msg)
			}
		}
	}
}
