package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/player"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/web"
	"github.com/gorilla/websocket"
)

type memoryStore struct {
	mu     sync.Mutex
	state  *models.PlayerState
	volume float64
}

func (s *memoryStore) Get() (*models.PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	cp := *s.state
	return &cp, nil
}

func (s *memoryStore) Set(state models.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	return nil
}

func (s *memoryStore) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	return nil
}

func (s *memoryStore) current() *models.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type harness struct {
	server *PanelServer
	ctrl   *player.Controller
	store  *memoryStore
	opened chan string
}

func newHarness(t *testing.T, grace time.Duration) *harness {
	t.Helper()

	cfg := shared.ServerConfig{Host: "127.0.0.1", Port: 0, CloseGrace: grace, OpenBrowser: true}
	logger := shared.NewLogger(io.Discard)

	srv, err := NewPanelServer(cfg, logger)
	if err != nil {
		t.Fatalf("NewPanelServer() error = %v", err)
	}
	opened := make(chan string, 8)
	srv.SetOpener(func(url string) error {
		opened <- url
		return nil
	})

	store := &memoryStore{}
	h := &harness{server: srv, ctrl: player.NewController(srv, store, logger), store: store, opened: opened}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return h
}

func (h *harness) open(t *testing.T, state models.PlayerState) string {
	t.Helper()

	if err := h.ctrl.Open(context.Background(), state); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	select {
	case url := <-h.opened:
		return url
	case <-time.After(time.Second):
		t.Fatal("browser was not opened")
		return ""
	}
}

func (h *harness) dial(t *testing.T, pageURL string) *websocket.Conn {
	t.Helper()

	_, query, _ := strings.Cut(pageURL, "?")
	wsURL := "ws" + strings.TrimPrefix(h.server.URL(), "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) player.Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	msg, err := player.DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	return msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg player.Message) {
	t.Helper()

	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func eventually(t *testing.T, cond func() bool, what string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func streamState() models.PlayerState {
	return models.PlayerState{
		Name:      "Track",
		Artists:   []string{"A"},
		SourceURL: "https://x/a.mp3",
		IsPlaying: true,
		Volume:    1,
	}
}

func TestPanelServerPage(t *testing.T) {
	t.Run("Renders Current Panel", func(t *testing.T) {
		h := newHarness(t, time.Second)
		url := h.open(t, streamState())

		if !strings.Contains(url, "/?panel=") {
			t.Fatalf("unexpected page URL %s", url)
		}

		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET page error = %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(body), "Track - A") {
			t.Error("page missing title")
		}
		if !strings.Contains(string(body), `src="https://x/a.mp3"`) {
			t.Error("expected streamed source when no local file")
		}
	})

	t.Run("No Panel", func(t *testing.T) {
		srv, err := NewPanelServer(shared.ServerConfig{Host: "127.0.0.1"}, shared.NewLogger(io.Discard))
		if err != nil {
			t.Fatalf("NewPanelServer() error = %v", err)
		}

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		srv, _ := NewPanelServer(shared.ServerConfig{Host: "127.0.0.1"}, shared.NewLogger(io.Discard))

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/media", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Serves Local Media", func(t *testing.T) {
		h := newHarness(t, time.Second)
		path := filepath.Join(t.TempDir(), "Track.mp3")
		if err := os.WriteFile(path, []byte("ID3audio"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		state := streamState()
		state.FilePath = path
		url := h.open(t, state)

		page, _ := http.Get(url)
		body, _ := io.ReadAll(page.Body)
		page.Body.Close()
		if !strings.Contains(string(body), `src="/media?v=1"`) {
			t.Error("expected local media URL in page")
		}

		resp, err := http.Get(h.server.URL() + "/media?v=1")
		if err != nil {
			t.Fatalf("GET media error = %v", err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		if string(data) != "ID3audio" {
			t.Errorf("unexpected media body %q", data)
		}
	})
}

func TestPanelServerSocket(t *testing.T) {
	t.Run("GetState Answers With Restore", func(t *testing.T) {
		h := newHarness(t, time.Second)
		saved := streamState()
		saved.CurrentTime = 33
		h.store.Set(saved)

		conn := h.dial(t, h.open(t, streamState()))
		writeMessage(t, conn, player.GetState())

		msg := readMessage(t, conn)
		if msg.Type != player.TypeRestoreState || msg.State.CurrentTime != 33 {
			t.Errorf("expected restoreState at 33, got %+v", msg)
		}
		if msg.AudioURL != "https://x/a.mp3" {
			t.Errorf("unexpected audio URL %q", msg.AudioURL)
		}
	})

	t.Run("UpdateState And SetVolume Reach Store", func(t *testing.T) {
		h := newHarness(t, time.Second)
		conn := h.dial(t, h.open(t, streamState()))

		report := streamState()
		report.CurrentTime = 5
		report.IsPlaying = false
		writeMessage(t, conn, player.UpdateState(report))
		writeMessage(t, conn, player.SetVolume(0.2))

		eventually(t, func() bool {
			st := h.store.current()
			return st != nil && st.CurrentTime == 5 && !st.IsPlaying
		}, "state report")
		eventually(t, func() bool {
			h.store.mu.Lock()
			defer h.store.mu.Unlock()
			return h.store.volume == 0.2
		}, "volume")
	})

	t.Run("Second Open Reveals And Plays", func(t *testing.T) {
		h := newHarness(t, time.Second)
		conn := h.dial(t, h.open(t, streamState()))

		next := streamState()
		next.Name = "Next"
		if err := h.ctrl.Open(context.Background(), next); err != nil {
			t.Fatalf("Open() error = %v", err)
		}

		if msg := readMessage(t, conn); msg.Type != player.TypeReveal {
			t.Errorf("expected reveal first, got %s", msg.Type)
		}
		msg := readMessage(t, conn)
		if msg.Type != player.TypePlay || msg.State.Name != "Next" {
			t.Errorf("expected play for Next, got %+v", msg)
		}
		select {
		case url := <-h.opened:
			t.Errorf("no second page should open, got %s", url)
		default:
		}
	})

	t.Run("Unknown Panel Refused", func(t *testing.T) {
		h := newHarness(t, time.Second)
		h.open(t, streamState())

		wsURL := "ws" + strings.TrimPrefix(h.server.URL(), "http") + "/ws?panel=stale"
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if !errors.Is(err, websocket.ErrBadHandshake) {
			t.Fatalf("expected bad handshake, got %v", err)
		}
		if resp.StatusCode != http.StatusGone {
			t.Errorf("expected 410, got %d", resp.StatusCode)
		}
	})

	t.Run("Disconnect Past Grace Closes Panel", func(t *testing.T) {
		h := newHarness(t, 50*time.Millisecond)
		conn := h.dial(t, h.open(t, streamState()))

		conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.ctrl.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if h.ctrl.IsOpen() {
			t.Error("expected panel to be closed")
		}
	})

	t.Run("Reconnect Within Grace Keeps Panel", func(t *testing.T) {
		h := newHarness(t, 300*time.Millisecond)
		url := h.open(t, streamState())
		first := h.dial(t, url)

		first.Close()
		h.dial(t, url)

		time.Sleep(500 * time.Millisecond)
		if !h.ctrl.IsOpen() {
			t.Error("expected panel to stay open after reconnect")
		}
	})

	t.Run("Second Tab Replaces First", func(t *testing.T) {
		h := newHarness(t, time.Second)
		url := h.open(t, streamState())
		first := h.dial(t, url)
		h.dial(t, url)

		first.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := first.ReadMessage()
		if !websocket.IsCloseError(err, web.ReplacedCloseCode) {
			t.Errorf("expected close code %d, got %v", web.ReplacedCloseCode, err)
		}
		if !h.ctrl.IsOpen() {
			t.Error("panel should remain open")
		}
	})

	t.Run("Shutdown Closes Panel", func(t *testing.T) {
		h := newHarness(t, time.Second)
		h.open(t, streamState())

		if err := h.server.Shutdown(context.Background()); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}
		if h.ctrl.IsOpen() {
			t.Error("expected controller to be closed")
		}
	})
}
