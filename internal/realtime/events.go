package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reviewboost/reviewboost_be/internal/logger"
)

const eventChannel = "rb:events"

const (
	EventVettingUpdated = "vetting.updated"
	EventRequestUpdated = "request.updated"
)

// Event is a status-change notification pushed to a freelancer's open
// dashboard connections.
type Event struct {
	Type    string      `json:"type"`
	UserID  uuid.UUID   `json:"user_id"`
	Payload interface{} `json:"payload,omitempty"`
}

// Notifier fans events out through Redis pub/sub so every API instance can
// reach the connection, falling back to the local hub when Redis is absent.
type Notifier struct {
	Hub *Hub
	RDB *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb}
}

func (n *Notifier) Notify(ctx context.Context, ev Event) {
	if n.RDB == nil {
		n.Hub.SendToUser(ev.UserID, ev)
		return
	}

	b, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal event", "err", err)
		return
	}
	if err := n.RDB.Publish(ctx, eventChannel, b).Err(); err != nil {
		logger.Warn("publish event failed, delivering locally", "err", err)
		n.Hub.SendToUser(ev.UserID, ev)
	}
}

// RunRelay subscribes to the event channel and forwards events to local
// connections. Blocks; run in a goroutine. No-op without Redis.
func (n *Notifier) RunRelay(ctx context.Context) {
	if n.RDB == nil {
		return
	}

	sub := n.RDB.Subscribe(ctx, eventChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Warn("bad event payload", "err", err)
			continue
		}
		n.Hub.SendToUser(ev.UserID, ev)
	}
}
