package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messenger-service/internal/membership"
	"messenger-service/internal/models"
	"messenger-service/internal/observability"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

// TokenVerifier validates a bearer credential and yields identity claims.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler owns the websocket endpoint: it upgrades connections, runs
// one read loop per session and dispatches inbound events.
type SocketHandler struct {
	hub         *Hub
	router      *Router
	verifier    TokenVerifier
	memberships repositories.MembershipRepository
	joiner      *membership.Service
	events      *telemetry.EventEmitter
	validate    *validator.Validate
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, router *Router, verifier TokenVerifier, memberships repositories.MembershipRepository, joiner *membership.Service, events *telemetry.EventEmitter) *SocketHandler {
	return &SocketHandler{
		hub:         hub,
		router:      router,
		verifier:    verifier,
		memberships: memberships,
		joiner:      joiner,
		events:      events,
		validate:    validator.New(),
	}
}

type connMeta struct {
	deviceID  string
	ip        string
	requestID string
	traceID   string
}

// Handle upgrades the connection and runs the session until it closes.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messenger-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	s := newSession(conn)
	meta := connMeta{
		deviceID:  observability.DeviceIDFromRequest(c.Request),
		ip:        observability.IPFromRequest(c.Request),
		requestID: observability.RequestIDFromRequest(c.Request),
		traceID:   span.SpanContext().TraceID().String(),
	}

	observability.IncWSActive()
	h.emitLifecycle(ctx, "ws_connect", s, meta, "")

	go s.writePump()
	go h.readLoop(context.WithoutCancel(ctx), s, meta)
}

// readLoop is the per-connection dispatcher. Events are handled sequentially,
// which is what gives per-sender ordering on the fan-out path.
func (h *SocketHandler) readLoop(ctx context.Context, s *Session, meta connMeta) {
	var closeReason string
	defer func() {
		h.hub.Unregister(s)
		s.close()
		observability.DecWSActive()
		h.emitLifecycle(ctx, "ws_disconnect", s, meta, closeReason)
	}()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.emitLifecycle(ctx, "ws_error", s, meta, closeReason)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			observability.IncDroppedEvent("malformed_frame")
			continue
		}
		h.handleEvent(ctx, s, env)
	}
}

func (h *SocketHandler) handleEvent(ctx context.Context, s *Session, env Envelope) {
	observability.IncWSEvent(env.Event, "in")

	switch env.Event {
	case EventAuthenticate:
		h.authenticate(ctx, s, env.Data)
	case EventPrivateMessage:
		identity := s.Identity()
		if identity == nil {
			observability.IncDroppedEvent("unauthenticated")
			return
		}
		var req PrivateMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || h.validate.Struct(req) != nil {
			observability.IncDroppedEvent("invalid_payload")
			return
		}
		h.router.SendPrivate(ctx, *identity, s, req)
	case EventGroupMessage:
		identity := s.Identity()
		if identity == nil {
			observability.IncDroppedEvent("unauthenticated")
			return
		}
		var req GroupMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || h.validate.Struct(req) != nil {
			observability.IncDroppedEvent("invalid_payload")
			return
		}
		h.router.SendGroup(ctx, *identity, s, req)
	case EventJoinGroup:
		identity := s.Identity()
		if identity == nil {
			observability.IncDroppedEvent("unauthenticated")
			return
		}
		var groupID int
		if err := json.Unmarshal(env.Data, &groupID); err != nil || groupID == 0 {
			observability.IncDroppedEvent("invalid_payload")
			return
		}
		if _, err := h.joiner.RequestOrGrant(ctx, *identity, groupID, identity.UserID); err != nil {
			log.Printf("join-group %d for user %d failed: %v", groupID, identity.UserID, err)
		}
	default:
		observability.IncDroppedEvent("unknown_event")
	}
}

// authenticate verifies the token, binds the session to the user's private
// channel and subscribes it to every approved group room. The connection
// stays open on failure so the client may retry.
func (h *SocketHandler) authenticate(ctx context.Context, s *Session, data json.RawMessage) {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		s.sendEvent(EventAuthError, nil)
		observability.IncWSEvent(EventAuthError, "out")
		return
	}

	identity, err := h.verifier.Verify(token)
	if err != nil {
		s.sendEvent(EventAuthError, nil)
		observability.IncWSEvent(EventAuthError, "out")
		return
	}

	s.setIdentity(identity)
	h.hub.Register(s, identity.UserID)

	groupIDs, err := h.memberships.ApprovedGroupIDs(ctx, identity.UserID)
	if err != nil {
		log.Printf("load approved groups for user %d: %v", identity.UserID, err)
	}
	for _, groupID := range groupIDs {
		h.hub.SubscribeGroup(s, groupID)
	}

	s.sendEvent(EventAuthenticated, nil)
	observability.IncWSEvent(EventAuthenticated, "out")
}

func (h *SocketHandler) emitLifecycle(ctx context.Context, name string, s *Session, meta connMeta, reason string) {
	event := telemetry.SocketEvent{
		ConnID:     s.ID,
		DeviceID:   meta.deviceID,
		IP:         meta.ip,
		RequestID:  meta.requestID,
		TraceID:    meta.traceID,
		DurationMS: time.Since(s.ConnectedAt).Milliseconds(),
		Reason:     reason,
	}
	if identity := s.Identity(); identity != nil {
		event.UserID = identity.UserID
	}
	h.events.Emit(ctx, name, event)
	observability.IncWSEvent(name, "lifecycle")
}
