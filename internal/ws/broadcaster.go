package ws

import (
	"context"
	"log/slog"

	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/protocol"
	"github.com/mcoot/guesswho-go/internal/services/session"
)

// Broadcaster pushes coordinator snapshots to all connected clients of a
// session. The state frame is marshaled once and shared by every client.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// Ensure Broadcaster implements the coordinator's notifier
var _ session.Notifier = (*Broadcaster)(nil)

// SessionUpdated broadcasts a state push for the session. A session with
// no hub has no connected clients and nothing to do.
func (b *Broadcaster) SessionUpdated(ctx context.Context, snapshot *model.Snapshot) {
	hub := b.hubManager.GetHub(snapshot.Code)
	if hub == nil {
		return
	}

	data, err := protocol.EncodeState(snapshot)
	if err != nil {
		b.logger.Error("ws failed to encode state",
			slog.String("session", string(snapshot.Code)),
			slog.String("error", err.Error()))
		return
	}

	hub.Broadcast(data)
}
