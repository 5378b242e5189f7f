package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/invaders/internal/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(Options{Logger: log.New(io.Discard), Strict: true}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) render.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f render.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func playerX(f render.Frame) (float64, bool) {
	for _, s := range f.Sprites {
		if s.Kind == "player" {
			return s.X, true
		}
	}
	return 0, false
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "/ws") {
		t.Error("page does not connect to /ws")
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFirstFrame(t *testing.T) {
	conn := dial(t, newTestServer(t))
	f := readFrame(t, conn)

	if f.Type != "frame" {
		t.Fatalf("type = %q, want frame", f.Type)
	}
	if f.Width != 1200 || f.Height != 560 {
		t.Errorf("field = %vx%v, want 1200x560", f.Width, f.Height)
	}
	if f.GameOver || f.Victory {
		t.Error("new session already ended")
	}

	enemies := 0
	for _, s := range f.Sprites {
		if s.Kind == "enemy" {
			enemies++
		}
	}
	if enemies != 24 {
		t.Errorf("enemies = %d, want 24", enemies)
	}
	if x, ok := playerX(f); !ok || x != 600 {
		t.Errorf("player x = %v (present %v), want 600", x, ok)
	}
}

func TestKeyDownMovesPlayer(t *testing.T) {
	conn := dial(t, newTestServer(t))
	readFrame(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "keydown", "code": "ArrowLeft"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 120; i++ {
		if x, ok := playerX(readFrame(t, conn)); ok && x < 600 {
			return
		}
	}
	t.Fatal("player never moved left")
}

func TestLegacyKeyCode(t *testing.T) {
	conn := dial(t, newTestServer(t))
	readFrame(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "keydown", "keyCode": 39}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 120; i++ {
		if x, ok := playerX(readFrame(t, conn)); ok && x > 600 {
			return
		}
	}
	t.Fatal("player never moved right")
}

// framesStop reports whether the server stops sending frames. The connection
// cannot be read again afterwards.
func framesStop(conn *websocket.Conn) bool {
	for i := 0; i < 300; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
		var f render.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return true
		}
	}
	return false
}

func TestStartDuringSessionIsIgnored(t *testing.T) {
	conn := dial(t, newTestServer(t))
	readFrame(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "keydown", "code": "Escape"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !framesStop(conn) {
		t.Fatal("a new session started from a start sent while playing")
	}
}

func TestStartAfterQuitKeepsHeldKeys(t *testing.T) {
	conn := dial(t, newTestServer(t))
	readFrame(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "keydown", "code": "ArrowLeft"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	last := 600.0
	for i := 0; i < 120 && last >= 600; i++ {
		if x, ok := playerX(readFrame(t, conn)); ok {
			last = x
		}
	}
	if last >= 600 {
		t.Fatal("player never moved left")
	}

	if err := conn.WriteJSON(map[string]any{"type": "keydown", "code": "Escape"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The new session starts back at the centre.
	restart := -1.0
	for i := 0; i < 300 && restart < 0; i++ {
		if x, ok := playerX(readFrame(t, conn)); ok && x > last {
			restart = x
		} else if ok {
			last = x
		}
	}
	if restart < 0 {
		t.Fatal("no new session after start")
	}

	// Left is still held, so the new player keeps moving left.
	for i := 0; i < 120; i++ {
		if x, ok := playerX(readFrame(t, conn)); ok && x < restart {
			return
		}
	}
	t.Fatal("held key was dropped by the restart")
}
