package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/player"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/web"
	"github.com/gorilla/websocket"
)

const (
	outboundQueueSize = 16
	writeWait         = 5 * time.Second
)

// PanelServer serves the player page and implements [player.PanelHost].
type PanelServer struct {
	cfg      shared.ServerConfig
	logger   *log.Logger
	renderer *web.Renderer
	router   *BasicRouter
	upgrader websocket.Upgrader
	opener   func(url string) error

	mu       sync.Mutex
	panel    *webPanel
	listener net.Listener
	srv      *http.Server
}

// NewPanelServer creates a stopped server. It starts listening on the first [PanelServer.CreatePanel].
func NewPanelServer(cfg shared.ServerConfig, logger *log.Logger) (*PanelServer, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &PanelServer{
		cfg:      cfg,
		logger:   shared.WithLogger(logger, "component", "panel"),
		renderer: renderer,
		router:   NewBasicRouter(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		opener:   shared.OpenBrowser,
	}

	s.router.Use(RequestLogger(s.logger))
	s.router.HandleFunc(http.MethodGet, "/{$}", s.handlePage)
	s.router.HandleFunc(http.MethodGet, "/media", s.handleMedia)
	s.router.HandleFunc(http.MethodGet, "/ws", s.handleSocket)

	return s, nil
}

// SetOpener replaces the function used to show a page URL to the user.
func (s *PanelServer) SetOpener(fn func(url string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opener = fn
}

// Handler returns the routed handler.
func (s *PanelServer) Handler() http.Handler {
	return s.router
}

// Start begins listening. Calling Start on a running server is a no-op.
func (s *PanelServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %v", shared.ErrServiceUnavailable, s.cfg.Addr(), err)
	}

	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	s.listener = ln
	s.srv = srv

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("panel server stopped", "error", err)
		}
	}()

	s.logger.Debug("panel server listening", "addr", ln.Addr().String(), "routes", s.router.Routes())
	return nil
}

// URL returns the base URL, or an empty string before [PanelServer.Start].
func (s *PanelServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL()
}

func (s *PanelServer) baseURL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Shutdown closes the current panel and stops the server.
func (s *PanelServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	panel := s.panel
	srv := s.srv
	s.panel = nil
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if panel != nil {
		panel.dispose()
		panel.ctrl.Closed(panel)
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// CreatePanel starts the server if needed, registers a new panel for payload and opens its page.
//
// Failing to launch a browser is not an error: the URL is logged so the user can open it by hand.
func (s *PanelServer) CreatePanel(ctx context.Context, payload player.RenderPayload, ctrl *player.Controller) (player.Surface, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	panel := newWebPanel(s, ctrl, payload)

	s.mu.Lock()
	previous := s.panel
	s.panel = panel
	url := s.baseURL() + "/?panel=" + panel.id
	open := s.opener
	s.mu.Unlock()

	if previous != nil {
		previous.dispose()
	}

	s.logger.Info("player ready", "url", url)
	if s.cfg.OpenBrowser && open != nil {
		if err := open(url); err != nil {
			s.logger.Warn("could not open browser, open the player URL manually", "url", url, "error", err)
		}
	}

	return panel, nil
}

func (s *PanelServer) current() *webPanel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel
}

func (s *PanelServer) release(p *webPanel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel == p {
		s.panel = nil
	}
}

func (s *PanelServer) reopen(p *webPanel) {
	s.mu.Lock()
	url := s.baseURL() + "/?panel=" + p.id
	open := s.opener
	s.mu.Unlock()

	if !s.cfg.OpenBrowser || open == nil {
		s.logger.Info("player is open", "url", url)
		return
	}
	if err := open(url); err != nil {
		s.logger.Warn("could not open browser", "url", url, "error", err)
	}
}

func (s *PanelServer) handlePage(w http.ResponseWriter, r *http.Request) {
	panel := s.current()
	if panel == nil {
		http.Error(w, "No player is open", http.StatusNotFound)
		return
	}

	state, audioURL := panel.snapshot()
	page := web.Page{
		Title:    state.Title(),
		State:    state,
		AudioURL: audioURL,
		WSPath:   "/ws?panel=" + panel.id,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.Render(w, page); err != nil {
		s.logger.Error("failed to render player", "error", err)
	}
}

func (s *PanelServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	panel := s.current()
	if panel == nil {
		http.NotFound(w, r)
		return
	}

	path := panel.mediaPath()
	if path == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *PanelServer) handleSocket(w http.ResponseWriter, r *http.Request) {
	panel := s.current()
	if panel == nil || r.URL.Query().Get("panel") != panel.id {
		http.Error(w, "Panel is gone", http.StatusGone)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	if !panel.attach(conn) {
		return
	}
	panel.readLoop(r.Context(), conn)
}

// webPanel is a browser tab bound to one controller surface.
type webPanel struct {
	id     string
	server *PanelServer
	ctrl   *player.Controller
	logger *log.Logger
	out    chan player.Message

	mu       sync.Mutex
	state    models.PlayerState
	rev      int
	conn     *websocket.Conn
	connDone chan struct{}
	timer    *time.Timer
	closed   bool
}

func newWebPanel(s *PanelServer, ctrl *player.Controller, payload player.RenderPayload) *webPanel {
	id := shared.GenerateID()
	return &webPanel{
		id:     id,
		server: s,
		ctrl:   ctrl,
		logger: shared.WithLogger(s.logger, "panel", id),
		out:    make(chan player.Message, outboundQueueSize),
		state:  payload.State,
		rev:    1,
	}
}

func (p *webPanel) ID() string {
	return p.id
}

// Post queues msg for the websocket writer, dropping it when the queue is full or the panel is closed.
func (p *webPanel) Post(msg player.Message) bool {
	if msg.State != nil {
		msg.AudioURL = p.setState(*msg.State)
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return false
	}

	select {
	case p.out <- msg:
		return true
	default:
		return false
	}
}

// Reveal focuses the connected tab, or opens the page again when no tab is connected.
func (p *webPanel) Reveal() {
	p.mu.Lock()
	connected := p.conn != nil
	closed := p.closed
	p.mu.Unlock()

	switch {
	case closed:
		return
	case connected:
		p.Post(player.Reveal())
	default:
		p.server.reopen(p)
	}
}

// setState records state as the panel's current track and returns the URL the page should load it from.
func (p *webPanel) setState(state models.PlayerState) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state.FilePath != p.state.FilePath {
		p.rev++
	}
	p.state = state
	return p.audioURLLocked()
}

func (p *webPanel) snapshot() (models.PlayerState, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.audioURLLocked()
}

func (p *webPanel) audioURLLocked() string {
	if p.mediaPathLocked() == "" {
		return p.state.SourceURL
	}
	return fmt.Sprintf("/media?v=%d", p.rev)
}

func (p *webPanel) mediaPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mediaPathLocked()
}

// mediaPathLocked returns the local file to serve, or "" when the state has none or it is missing.
func (p *webPanel) mediaPathLocked() string {
	path := p.state.FilePath
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return path
}

// attach makes conn the live connection, replacing any previous one.
func (p *webPanel) attach(conn *websocket.Conn) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		closeConn(conn, websocket.CloseGoingAway, "panel closed")
		return false
	}

	old := p.conn
	oldDone := p.connDone
	done := make(chan struct{})
	p.conn = conn
	p.connDone = done
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	if old != nil {
		close(oldDone)
		closeConn(old, web.ReplacedCloseCode, "replaced by another tab")
		p.logger.Debug("panel connection replaced")
	}

	go p.writeLoop(conn, done)
	p.logger.Debug("panel connected")
	return true
}

// detach drops conn and starts the close grace period when conn was the live connection.
func (p *webPanel) detach(conn *websocket.Conn) {
	defer conn.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != conn {
		return
	}

	p.conn = nil
	close(p.connDone)
	p.connDone = nil
	if !p.closed {
		p.timer = time.AfterFunc(p.server.cfg.CloseGrace, p.expire)
	}
	p.logger.Debug("panel disconnected", "grace", p.server.cfg.CloseGrace)
}

// expire closes the panel when no tab reconnected during the grace period.
func (p *webPanel) expire() {
	p.mu.Lock()
	if p.closed || p.conn != nil {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.timer = nil
	p.mu.Unlock()

	p.server.release(p)
	p.ctrl.Closed(p)
}

func (p *webPanel) dispose() {
	p.mu.Lock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	conn := p.conn
	p.mu.Unlock()

	if conn != nil {
		closeConn(conn, websocket.CloseGoingAway, "player shut down")
	}
}

func (p *webPanel) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer p.detach(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Debug("panel read ended", "error", err)
			}
			return
		}

		msg, err := player.DecodeMessage(data)
		if err != nil {
			p.logger.Warn("ignoring panel message", "error", err)
			continue
		}
		if msg.Type == player.TypeUpdateState {
			p.setState(*msg.State)
		}

		if err := p.ctrl.Receive(ctx, p, msg); err != nil {
			p.logger.Error("failed to handle panel message", "type", msg.Type, "error", err)
		}
	}
}

func (p *webPanel) writeLoop(conn *websocket.Conn, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-p.out:
			data, err := msg.Encode()
			if err != nil {
				p.logger.Error("dropping panel message", "error", err)
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.logger.Debug("panel write failed", "type", msg.Type, "error", err)
				return
			}
		}
	}
}

func closeConn(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	conn.Close()
}
