package ws

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"messenger-service/internal/models"
)

// outBufferSize bounds the per-session outbound queue. The server keeps no
// undelivered-message buffer beyond it: a session that cannot drain its queue
// is dropped and the client must fetch history on reconnect.
const outBufferSize = 64

// Session is the state of one live connection. Identity is nil until the
// connection authenticates; a user may hold several concurrent sessions.
type Session struct {
	ID          string
	ConnectedAt time.Time

	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once

	mu       sync.RWMutex
	identity *models.Identity
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now(),
		conn:        conn,
		out:         make(chan []byte, outBufferSize),
		done:        make(chan struct{}),
	}
}

// Identity returns the authenticated identity, or nil.
func (s *Session) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) setIdentity(identity models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
}

// send enqueues a payload for the writer goroutine. It never blocks: a full
// queue or a closed session reports false and the caller decides the fate of
// the connection.
func (s *Session) send(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- payload:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

func (s *Session) sendEvent(event string, data any) {
	payload, err := encodeEvent(event, data)
	if err != nil {
		log.Printf("encode %s event: %v", event, err)
		return
	}
	if !s.send(payload) {
		s.close()
	}
}

// close tears the session down. Closing the underlying connection unblocks
// the read loop, whose cleanup removes the session from the hub.
func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// writePump drains the outbound queue onto the connection. One per session.
func (s *Session) writePump() {
	for {
		select {
		case payload := <-s.out:
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("websocket write error: %v", err)
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}
