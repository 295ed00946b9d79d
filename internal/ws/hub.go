package ws

import "sync"

type sessionRooms struct {
	userID int
	groups map[int]struct{}
}

// Hub is the process-wide registry of live subscriptions: one private channel
// per authenticated user and one room per group. All maps are guarded by a
// single RWMutex so a fan-out never races a join or a teardown.
type Hub struct {
	mu     sync.RWMutex
	users  map[int]map[*Session]struct{}
	groups map[int]map[*Session]struct{}
	index  map[*Session]*sessionRooms
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		users:  make(map[int]map[*Session]struct{}),
		groups: make(map[int]map[*Session]struct{}),
		index:  make(map[*Session]*sessionRooms),
	}
}

// Register binds an authenticated session to its user's private channel.
func (h *Hub) Register(s *Session, userID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[*Session]struct{})
	}
	h.users[userID][s] = struct{}{}
	if _, ok := h.index[s]; !ok {
		h.index[s] = &sessionRooms{userID: userID, groups: make(map[int]struct{})}
	}
}

// SubscribeGroup adds a session to a group room.
func (h *Hub) SubscribeGroup(s *Session, groupID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms, ok := h.index[s]
	if !ok {
		return
	}
	if _, ok := h.groups[groupID]; !ok {
		h.groups[groupID] = make(map[*Session]struct{})
	}
	h.groups[groupID][s] = struct{}{}
	rooms.groups[groupID] = struct{}{}
}

// JoinUserToGroup subscribes every live session of a user to a group room.
// This is the immediate side effect of a membership approval: the user starts
// receiving room traffic without re-authenticating.
func (h *Hub) JoinUserToGroup(groupID int, userID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.users[userID] {
		rooms, ok := h.index[s]
		if !ok {
			continue
		}
		if _, ok := h.groups[groupID]; !ok {
			h.groups[groupID] = make(map[*Session]struct{})
		}
		h.groups[groupID][s] = struct{}{}
		rooms.groups[groupID] = struct{}{}
	}
}

// Unregister releases a session and every subscription it holds.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms, ok := h.index[s]
	if !ok {
		return
	}
	delete(h.index, s)
	if conns, ok := h.users[rooms.userID]; ok {
		delete(conns, s)
		if len(conns) == 0 {
			delete(h.users, rooms.userID)
		}
	}
	for groupID := range rooms.groups {
		if conns, ok := h.groups[groupID]; ok {
			delete(conns, s)
			if len(conns) == 0 {
				delete(h.groups, groupID)
			}
		}
	}
}

// ToUser delivers a payload to every session on a user's private channel,
// skipping the originating session.
func (h *Hub) ToUser(userID int, payload []byte, except *Session) {
	h.deliver(h.snapshot(h.users, userID), payload, except)
}

// ToGroup delivers a payload to every session in a group room, skipping the
// originating session.
func (h *Hub) ToGroup(groupID int, payload []byte, except *Session) {
	h.deliver(h.snapshot(h.groups, groupID), payload, except)
}

func (h *Hub) snapshot(rooms map[int]map[*Session]struct{}, id int) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := rooms[id]
	out := make([]*Session, 0, len(conns))
	for s := range conns {
		out = append(out, s)
	}
	return out
}

func (h *Hub) deliver(sessions []*Session, payload []byte, except *Session) {
	for _, s := range sessions {
		if s == except {
			continue
		}
		if !s.send(payload) {
			s.close()
		}
	}
}
