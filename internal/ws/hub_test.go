package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainEvent(t *testing.T, s *Session) Envelope {
	t.Helper()
	select {
	case payload := <-s.out:
		var env Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return env
	default:
		t.Fatal("expected a queued event")
		return Envelope{}
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	s := newSession(nil)

	hub.Register(s, 1)
	require.Len(t, hub.users, 1)

	hub.Unregister(s)
	assert.Len(t, hub.users, 0)
	assert.Len(t, hub.index, 0)
}

func TestHubUnregisterReleasesGroupRooms(t *testing.T) {
	hub := NewHub()
	s := newSession(nil)

	hub.Register(s, 1)
	hub.SubscribeGroup(s, 10)
	hub.SubscribeGroup(s, 11)
	require.Len(t, hub.groups, 2)

	hub.Unregister(s)
	assert.Len(t, hub.groups, 0)
}

func TestHubSubscribeGroupIgnoresUnregisteredSession(t *testing.T) {
	hub := NewHub()
	s := newSession(nil)

	hub.SubscribeGroup(s, 10)
	assert.Len(t, hub.groups, 0)
}

func TestHubToUserSkipsOrigin(t *testing.T) {
	hub := NewHub()
	origin := newSession(nil)
	other := newSession(nil)

	// same user on two devices
	hub.Register(origin, 1)
	hub.Register(other, 1)

	hub.ToUser(1, []byte(`{"event":"private-message"}`), origin)

	env := drainEvent(t, other)
	assert.Equal(t, EventPrivateMessage, env.Event)
	assert.Empty(t, origin.out)
}

func TestHubToGroupDeliversToSubscribersOnly(t *testing.T) {
	hub := NewHub()
	member := newSession(nil)
	outsider := newSession(nil)

	hub.Register(member, 1)
	hub.Register(outsider, 2)
	hub.SubscribeGroup(member, 7)

	hub.ToGroup(7, []byte(`{"event":"group-message"}`), nil)

	assert.Len(t, member.out, 1)
	assert.Empty(t, outsider.out)
}

func TestHubJoinUserToGroupSubscribesAllLiveSessions(t *testing.T) {
	hub := NewHub()
	first := newSession(nil)
	second := newSession(nil)

	hub.Register(first, 5)
	hub.Register(second, 5)

	hub.JoinUserToGroup(9, 5)

	hub.ToGroup(9, []byte(`{"event":"group-message"}`), nil)
	assert.Len(t, first.out, 1)
	assert.Len(t, second.out, 1)
}

func TestHubJoinUserToGroupWithoutLiveSessions(t *testing.T) {
	hub := NewHub()

	hub.JoinUserToGroup(9, 5)
	assert.Len(t, hub.groups, 0)
}
