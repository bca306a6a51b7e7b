package web

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nmea2web/internal/metric"
)

// writeWait bounds each outbound frame so one stalled client cannot
// hold a writer goroutine forever.
const writeWait = 5 * time.Second

// sendBuffer is the per-subscriber frame queue. A subscriber that falls
// this far behind is dropped rather than back-pressuring ingest.
const sendBuffer = 32

// Hub tracks live WebSocket subscribers and fans metric updates out to
// them. The ingest loop calls Publish; each connection joins and leaves
// from its own goroutine. A subscriber that errors, stalls past the
// write deadline, or fills its queue is silently removed.
type Hub struct {
	store *metric.Store

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub(store *metric.Store) *Hub {
	return &Hub{
		store: store,
		subs:  make(map[*subscriber]struct{}),
	}
}

type subscriber struct {
	conn *websocket.Conn
	send chan string
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// Publish pushes one "KEY:formatted" frame to every subscriber. It never
// blocks: a full queue drops that subscriber and delivery to the rest
// continues.
func (h *Hub) Publish(key metric.Key, formatted string) {
	frame := string(key) + ":" + formatted

	h.mu.Lock()
	var dead []*subscriber
	for sub := range h.subs {
		select {
		case sub.send <- frame:
		default:
			dead = append(dead, sub)
		}
	}
	for _, sub := range dead {
		delete(h.subs, sub)
		sub.close()
	}
	h.mu.Unlock()
}

// Count reports the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// join registers conn and replays the current state of every observed
// key before any live frame can be queued.
func (h *Hub) join(conn *websocket.Conn) *subscriber {
	sub := &subscriber{
		conn: conn,
		send: make(chan string, sendBuffer),
	}
	// Queue the replay before the subscriber is visible to Publish so
	// it precedes all live frames in the channel.
	for key, v := range h.store.Snapshot() {
		sub.send <- string(key) + ":" + metric.Format(key, v)
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// leave removes sub from the registry. Removing an already-departed
// subscriber is a no-op.
func (h *Hub) leave(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	sub.close()
	h.mu.Unlock()
}

// serve runs the subscriber until its transport dies. The writer drains
// the queue under a per-frame deadline; the read loop exists only to
// observe liveness and close.
func (h *Hub) serve(conn *websocket.Conn) {
	sub := h.join(conn)

	go func() {
		for frame := range sub.send {
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				h.leave(sub)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.leave(sub)
}
