package ws

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

// HubNotifier implements service.PostNotifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyPostCreated(post *domain.Post) {
	evt, err := NewEvent(EventTypePostCreated, PostPayload{Post: *post})
	if err != nil {
		slog.Error("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.Broadcast(evt)
}

func (n *HubNotifier) NotifyPostUpdated(post *domain.Post) {
	evt, err := NewEvent(EventTypePostUpdated, PostPayload{Post: *post})
	if err != nil {
		slog.Error("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.Broadcast(evt)
}

func (n *HubNotifier) NotifyPostDeleted(postID uuid.UUID) {
	evt, err := NewEvent(EventTypePostDeleted, PostDeletedPayload{ID: postID})
	if err != nil {
		slog.Error("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.Broadcast(evt)
}
