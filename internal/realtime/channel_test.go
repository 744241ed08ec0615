package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"intervox/internal/interview"
	"intervox/internal/session"
	"intervox/internal/testsupport"
)

func TestReconnectDelaySequence(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for retry, expected := range want {
		if got := ReconnectDelay(retry); got != expected {
			t.Errorf("retry %d: delay = %s, want %s", retry, got, expected)
		}
	}
}

type feedServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
	dials int
	paths []string
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.dials++
		fs.paths = append(fs.paths, r.URL.Path+"?"+r.URL.RawQuery)
		fs.mu.Unlock()

		conn, err := fs.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fs.mu.Lock()
		fs.conns = append(fs.conns, conn)
		fs.mu.Unlock()

		// Hold the connection open; reads surface the client's close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *feedServer) wsURL() string {
	return "ws" + strings.TrimPrefix(fs.server.URL, "http")
}

func (fs *feedServer) dialCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.dials
}

func (fs *feedServer) send(t *testing.T, payload string) {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.conns) == 0 {
		t.Fatal("no active connection")
	}
	conn := fs.conns[len(fs.conns)-1]
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func (fs *feedServer) dropAll() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, conn := range fs.conns {
		_ = conn.Close()
	}
	fs.conns = nil
}

func waitFor(t *testing.T, what string, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestChannelDeliversEventsAndDropsMalformed(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), session.NewStatic("tok-1", "user-1"))
	defer channel.Stop()

	events := make(chan interview.RealtimeEvent, 4)
	channel.SetHandler(func(ev interview.RealtimeEvent) {
		events <- ev
	})

	channel.Start(context.Background())
	waitFor(t, "channel open", func() bool { return channel.State() == StateOpen })

	fs.send(t, `{not json`)
	fs.send(t, `{"type": "status_update", "interview_id": "iv-1", "status": "analysing", "updated_at": "2026-03-04T10:00:00Z"}`)

	select {
	case ev := <-events:
		if ev.InterviewID != "iv-1" || ev.Status != interview.StatusAnalysing {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event not delivered")
	}

	// The malformed frame must have been dropped without tearing down the
	// connection or producing an event.
	if channel.State() != StateOpen {
		t.Fatalf("connection state after malformed frame: %s", channel.State())
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event: %+v", ev)
	default:
	}
}

func TestChannelAuthenticatesWithTokenAndUser(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), testsupport.MustLoggedInManager(t, "tok-1", "user-1"))
	defer channel.Stop()

	channel.Start(context.Background())
	waitFor(t, "channel open", func() bool { return channel.State() == StateOpen })

	fs.mu.Lock()
	path := fs.paths[0]
	fs.mu.Unlock()
	if path != "/api/v1/ws/user-1?token=tok-1" {
		t.Fatalf("unexpected subscription request: %s", path)
	}
}

func TestStartWithoutCredentialsIsSilentlySkipped(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), session.Static{})
	defer channel.Stop()

	channel.Start(context.Background())
	waitFor(t, "idle state", func() bool { return channel.State() == StateIdle })

	time.Sleep(50 * time.Millisecond)
	if fs.dialCount() != 0 {
		t.Fatalf("no dial may happen without credentials, got %d", fs.dialCount())
	}
	channel.mu.Lock()
	timerSet := channel.retryTimer != nil
	channel.mu.Unlock()
	if timerSet {
		t.Fatal("auth-unavailable must not schedule a retry")
	}
}

func TestChannelReconnectsAfterServerDrop(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), session.NewStatic("tok-1", "user-1"))
	defer channel.Stop()

	channel.Start(context.Background())
	waitFor(t, "channel open", func() bool { return channel.State() == StateOpen })

	fs.dropAll()

	// First reconnect delay is one second.
	waitFor(t, "reconnect", func() bool { return fs.dialCount() >= 2 })
	waitFor(t, "channel reopen", func() bool { return channel.State() == StateOpen })

	// A successful open resets the retry counter.
	channel.mu.Lock()
	retries := channel.retries
	channel.mu.Unlock()
	if retries != 0 {
		t.Fatalf("retry counter not reset on open: %d", retries)
	}
}

func TestStopPreventsReconnect(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), session.NewStatic("tok-1", "user-1"))

	channel.Start(context.Background())
	waitFor(t, "channel open", func() bool { return channel.State() == StateOpen })

	channel.Stop()
	channel.Stop() // idempotent

	// The server-side close that follows Stop must not trigger a redial.
	fs.dropAll()
	time.Sleep(1500 * time.Millisecond)

	if got := fs.dialCount(); got != 1 {
		t.Fatalf("expected exactly 1 dial, got %d", got)
	}
	if channel.State() != StateStopped {
		t.Fatalf("state after stop: %s", channel.State())
	}
}

func TestHandlerSwapDoesNotReconnect(t *testing.T) {
	fs := newFeedServer(t)
	channel := New(fs.wsURL(), session.NewStatic("tok-1", "user-1"))
	defer channel.Stop()

	first := make(chan interview.RealtimeEvent, 1)
	channel.SetHandler(func(ev interview.RealtimeEvent) { first <- ev })

	channel.Start(context.Background())
	waitFor(t, "channel open", func() bool { return channel.State() == StateOpen })

	second := make(chan interview.RealtimeEvent, 1)
	channel.SetHandler(func(ev interview.RealtimeEvent) { second <- ev })

	fs.send(t, `{"type": "status_update", "interview_id": "iv-2", "status": "completed"}`)

	select {
	case ev := <-second:
		if ev.InterviewID != "iv-2" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("swapped handler not invoked")
	}
	select {
	case <-first:
		t.Fatal("old handler must not receive events after swap")
	default:
	}
	if fs.dialCount() != 1 {
		t.Fatalf("handler swap forced a reconnect: %d dials", fs.dialCount())
	}
}
