// Package stream broadcasts binned trail segments to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/theme"
)

// Message types sent to clients.
const (
	TypeFrame  = "frame"
	TypeScheme = "scheme"
)

// Frame carries one tick's binned segments. Each segment is [x1, y1, x2, y2]
// in screen pixels.
type Frame struct {
	Type      string        `json:"type"`
	Tick      int64         `json:"tick"`
	Truncated bool          `json:"truncated,omitempty"`
	Buckets   []FrameBucket `json:"buckets"`
}

// FrameBucket is one magnitude bucket within a frame.
type FrameBucket struct {
	Threshold float64      `json:"threshold"`
	Opacity   float64      `json:"opacity"`
	Segments  [][4]float32 `json:"segments"`
}

// SchemeMessage announces the active color scheme.
type SchemeMessage struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Land  string `json:"land"`
	Sea   string `json:"sea"`
	Fade  string `json:"fade"`
	Trail string `json:"trail"`
}

// Control is a command sent by a client.
type Control struct {
	Action string `json:"action"`           // respawn | theme | pause | resume
	Mode   string `json:"mode,omitempty"`   // respawn: random | lattice
	Scheme string `json:"scheme,omitempty"` // theme: dark | light | toggle
}

// ErrInvalidControl is returned when a control message cannot be applied.
var ErrInvalidControl = errors.New("stream: invalid control")

// Validate checks that c names a known action with valid arguments.
func (c Control) Validate() error {
	switch c.Action {
	case "respawn":
		if _, err := systems.ParseSpawnMode(c.Mode); err != nil {
			return errors.Join(ErrInvalidControl, err)
		}
	case "theme":
		switch c.Scheme {
		case "dark", "light", "toggle":
		default:
			return errors.Join(ErrInvalidControl, errors.New("unknown scheme "+c.Scheme))
		}
	case "pause", "resume":
	default:
		return errors.Join(ErrInvalidControl, errors.New("unknown action "+c.Action))
	}
	return nil
}

// BuildFrame flattens buckets into a frame holding at most maxSegments
// segments. Faster buckets are kept first when the cap applies. A cap of
// zero or less means unlimited.
func BuildFrame(tick int64, buckets []systems.Bucket, maxSegments int) Frame {
	f := Frame{Type: TypeFrame, Tick: tick, Buckets: make([]FrameBucket, len(buckets))}
	remaining := maxSegments
	if remaining <= 0 {
		remaining = math.MaxInt
	}
	for k := len(buckets) - 1; k >= 0; k-- {
		b := buckets[k]
		n := min(len(b.Segments), remaining)
		if n < len(b.Segments) {
			f.Truncated = true
		}
		fb := FrameBucket{Threshold: b.Threshold, Opacity: b.Opacity, Segments: make([][4]float32, n)}
		for i := 0; i < n; i++ {
			s := b.Segments[i]
			fb.Segments[i] = [4]float32{float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y)}
		}
		f.Buckets[k] = fb
		remaining -= n
	}
	return f
}

// NewSchemeMessage converts a scheme for the wire.
func NewSchemeMessage(s theme.Scheme) SchemeMessage {
	return SchemeMessage{
		Type:  TypeScheme,
		Name:  s.Name,
		Land:  theme.Hex(s.Land),
		Sea:   theme.Hex(s.Sea),
		Fade:  theme.Hex(s.Fade),
		Trail: theme.Hex(s.Trail),
	}
}

// sendQueue is the number of encoded messages buffered per client.
const sendQueue = 8

// writeWait bounds a single websocket write.
const writeWait = time.Second

// client is one websocket connection with its own outbound queue. A writer
// goroutine drains send so a slow connection never blocks the tick loop.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks websocket clients and fans messages out to them.
type Hub struct {
	upgrader    websocket.Upgrader
	maxSegments int
	logger      *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	scheme  []byte

	dropped  atomic.Int64
	controls chan Control
}

// NewHub creates a hub. maxSegments caps segments per frame (<= 0 for no cap).
func NewHub(maxSegments int, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		maxSegments: maxSegments,
		logger:      logger,
		clients:     make(map[*client]struct{}),
		controls:    make(chan Control, 16),
	}
}

// Controls returns client commands. The viewer drains it once per tick.
func (h *Hub) Controls() <-chan Control {
	return h.controls
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded because a client's queue
// was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Handler returns the HTTP routes served by the hub.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{
			"clients": int64(h.Clients()),
			"dropped": h.Dropped(),
		})
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	// Queued under the lock so the scheme precedes any frame.
	if h.scheme != nil {
		c.send <- h.scheme
	}
	h.mu.Unlock()
	defer h.remove(c)

	go h.writePump(c)

	h.logger.Info("client connected", "remote", r.RemoteAddr)

	for {
		var ctl Control
		if err := conn.ReadJSON(&ctl); err != nil {
			h.logger.Info("client disconnected", "remote", r.RemoteAddr, "err", err)
			return
		}
		if err := ctl.Validate(); err != nil {
			h.logger.Warn("ignoring control", "remote", r.RemoteAddr, "err", err)
			continue
		}
		select {
		case h.controls <- ctl:
		default:
			h.logger.Warn("control queue full, dropping", "action", ctl.Action)
		}
	}
}

// writePump writes queued messages until send is closed or a write fails.
// A failed write closes the connection, which ends the read loop in serveWS.
func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Warn("websocket write failed", "err", err)
			c.conn.Close()
			return
		}
	}
}

// remove unregisters c and closes its queue. Safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// BroadcastFrame queues the tick's segments for every client and returns the
// number of segments in the frame.
func (h *Hub) BroadcastFrame(tick int64, buckets []systems.Bucket) int {
	if h.Clients() == 0 {
		return 0
	}
	f := BuildFrame(tick, buckets, h.maxSegments)
	h.broadcast(f)
	n := 0
	for _, b := range f.Buckets {
		n += len(b.Segments)
	}
	return n
}

// BroadcastScheme sends s to every client and remembers it for new ones.
func (h *Hub) BroadcastScheme(s theme.Scheme) {
	msg, err := json.Marshal(NewSchemeMessage(s))
	if err != nil {
		h.logger.Error("encoding scheme", "err", err)
		return
	}
	h.mu.Lock()
	h.scheme = msg
	h.mu.Unlock()
	h.queue(msg)
}

// broadcast encodes v once and queues it for every client.
func (h *Hub) broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encoding message", "err", err)
		return
	}
	h.queue(msg)
}

// queue hands msg to each client without blocking. Clients whose queue is
// full miss this message.
func (h *Hub) queue(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("stream listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		h.closeAll()
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		close(c.send)
		delete(h.clients, c)
	}
}
