package ws

import (
	"context"
	"log"

	"messenger-service/internal/models"
	"messenger-service/internal/observability"
	"messenger-service/internal/repositories"
)

// Router is the routing engine: it persists an inbound message and fans it
// out to the sessions subscribed to the target channel. Persistence runs
// first but its failure does not abort delivery; the real-time path favors
// availability over durability and a store outage only costs history.
type Router struct {
	hub      *Hub
	messages repositories.MessageRepository
}

// NewRouter constructs a Router.
func NewRouter(hub *Hub, messages repositories.MessageRepository) *Router {
	return &Router{hub: hub, messages: messages}
}

// SendPrivate persists a direct message and delivers it to every session on
// the recipient's private channel. The originating session is not echoed;
// other sessions of the same user are, when they happen to be the target.
func (r *Router) SendPrivate(ctx context.Context, sender models.Identity, origin *Session, req PrivateMessageRequest) {
	if _, err := r.messages.CreatePrivateMessage(ctx, sender.UserID, req.To, req.Message); err != nil {
		log.Printf("persist private message from %d to %d failed: %v", sender.UserID, req.To, err)
		observability.IncPersistError("private")
	}

	payload, err := encodeEvent(EventPrivateMessage, PrivateMessageEvent{
		From:    sender.Username,
		Message: req.Message,
		FromID:  sender.UserID,
	})
	if err != nil {
		log.Printf("encode private message: %v", err)
		return
	}
	r.hub.ToUser(req.To, payload, origin)
	observability.IncWSEvent(EventPrivateMessage, "out")
}

// SendGroup persists a room message and delivers it to every session
// subscribed to the group's room, except the originating one. Membership is
// not checked on the send path; any authenticated session may post.
func (r *Router) SendGroup(ctx context.Context, sender models.Identity, origin *Session, req GroupMessageRequest) {
	if _, err := r.messages.CreateGroupMessage(ctx, sender.UserID, req.GroupID, req.Message); err != nil {
		log.Printf("persist group message from %d to group %d failed: %v", sender.UserID, req.GroupID, err)
		observability.IncPersistError("group")
	}

	payload, err := encodeEvent(EventGroupMessage, GroupMessageEvent{
		From:    sender.Username,
		Message: req.Message,
		FromID:  sender.UserID,
		GroupID: req.GroupID,
	})
	if err != nil {
		log.Printf("encode group message: %v", err)
		return
	}
	r.hub.ToGroup(req.GroupID, payload, origin)
	observability.IncWSEvent(EventGroupMessage, "out")
}
