package events

import (
	"context"

	"github.com/edukita/lms-backend/internal/sse"
)

// Bus fans domain events out across backend instances so SSE clients
// connected to a different instance still receive them.
type Bus interface {
	Publish(ctx context.Context, msg sse.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m sse.SSEMessage)) error
	Close() error
}
