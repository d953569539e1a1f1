package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/ssedata"
)

// appendEvent buffers a domain event on the request context. Handlers flush
// the buffer to the hub only after the enclosing transaction commits, so a
// rolled-back operation never broadcasts.
func appendEvent(ctx context.Context, channel string, event sse.SSEEvent, data any) {
	ssd := ssedata.GetSSEData(ctx)
	if ssd == nil {
		return
	}
	ssd.AppendMessage(sse.SSEMessage{
		Channel: channel,
		Event:   event,
		Data:    data,
	})
}

func userChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
