package stream

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/theme"
)

func testBuckets() []systems.Bucket {
	seg := func(x float64) systems.Segment {
		return systems.Segment{From: r2.Vec{X: x, Y: 1}, To: r2.Vec{X: x + 1, Y: 2}}
	}
	return []systems.Bucket{
		{Threshold: 0.1, Opacity: 0.1, Segments: []systems.Segment{seg(0), seg(1), seg(2)}},
		{Threshold: 0.2, Opacity: 0.2, Segments: []systems.Segment{seg(10), seg(11)}},
		{Threshold: 0.3, Opacity: 0.3},
	}
}

func TestBuildFrame(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		wantPer   []int
		truncated bool
	}{
		{"unlimited", 0, []int{3, 2, 0}, false},
		{"exact", 5, []int{3, 2, 0}, false},
		{"fast buckets first", 3, []int{1, 2, 0}, true},
		{"only fastest", 2, []int{0, 2, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildFrame(7, testBuckets(), tt.max)
			if f.Type != TypeFrame || f.Tick != 7 {
				t.Errorf("frame header = %q/%d", f.Type, f.Tick)
			}
			if f.Truncated != tt.truncated {
				t.Errorf("Truncated = %v, want %v", f.Truncated, tt.truncated)
			}
			for k, want := range tt.wantPer {
				if got := len(f.Buckets[k].Segments); got != want {
					t.Errorf("bucket %d has %d segments, want %d", k, got, want)
				}
			}
		})
	}

	f := BuildFrame(1, testBuckets(), 0)
	if got := f.Buckets[1].Segments[0]; got != [4]float32{10, 1, 11, 2} {
		t.Errorf("segment = %v, want [10 1 11 2]", got)
	}
	if f.Buckets[1].Opacity != 0.2 {
		t.Errorf("opacity = %v, want 0.2", f.Buckets[1].Opacity)
	}
}

func TestControlValidate(t *testing.T) {
	tests := []struct {
		c       Control
		wantErr bool
	}{
		{Control{Action: "respawn", Mode: "random"}, false},
		{Control{Action: "respawn", Mode: "lattice"}, false},
		{Control{Action: "respawn", Mode: "spiral"}, true},
		{Control{Action: "theme", Scheme: "toggle"}, false},
		{Control{Action: "theme", Scheme: "sepia"}, true},
		{Control{Action: "pause"}, false},
		{Control{Action: "resume"}, false},
		{Control{Action: "explode"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.c.Action+"/"+tt.c.Mode+tt.c.Scheme, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidControl) {
				t.Errorf("error %v does not wrap ErrInvalidControl", err)
			}
		})
	}
}

func TestHubRoundTrip(t *testing.T) {
	hub := NewHub(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.BroadcastScheme(theme.Light())

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// New clients get the current scheme first.
	var scheme SchemeMessage
	if err := conn.ReadJSON(&scheme); err != nil {
		t.Fatalf("read scheme: %v", err)
	}
	if scheme.Type != TypeScheme || scheme.Name != "light" || scheme.Sea != "#4682b4ff" {
		t.Errorf("scheme = %+v", scheme)
	}
	if hub.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", hub.Clients())
	}

	if n := hub.BroadcastFrame(3, testBuckets()); n != 5 {
		t.Errorf("BroadcastFrame sent %d segments, want 5", n)
	}
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if frame.Tick != 3 || len(frame.Buckets) != 3 || len(frame.Buckets[0].Segments) != 3 {
		t.Errorf("frame = %+v", frame)
	}

	// Invalid controls are dropped, valid ones reach the loop.
	if err := conn.WriteJSON(Control{Action: "explode"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Control{Action: "respawn", Mode: "lattice"}); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-hub.Controls():
		if c.Action != "respawn" || c.Mode != "lattice" {
			t.Errorf("control = %+v, want respawn/lattice", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("control not delivered")
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after close, want 0", hub.Clients())
	}
}

func TestBroadcastFrameWithoutClients(t *testing.T) {
	hub := NewHub(10, nil)
	if n := hub.BroadcastFrame(1, testBuckets()); n != 0 {
		t.Errorf("BroadcastFrame with no clients = %d, want 0", n)
	}
}

func TestBroadcastDropsForFullQueue(t *testing.T) {
	hub := NewHub(0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// A client with no writer draining its queue.
	stalled := &client{send: make(chan []byte, sendQueue)}
	hub.mu.Lock()
	hub.clients[stalled] = struct{}{}
	hub.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for tick := int64(0); tick < sendQueue+3; tick++ {
			hub.BroadcastFrame(tick, testBuckets())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}

	if got := len(stalled.send); got != sendQueue {
		t.Errorf("queued %d messages, want %d", got, sendQueue)
	}
	if got := hub.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, want 3", got)
	}

	hub.remove(stalled)
	hub.remove(stalled)
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after remove, want 0", hub.Clients())
	}
}
