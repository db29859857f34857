package devserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Config controls the dev-preview server.
type Config struct {
	// Address is the "host:port" to listen on.
	Address string

	// StaticDir, when non-empty, is served under /static/*.
	StaticDir string

	// Index serves the preview page at "/". Defaults to a minimal HTML
	// shell that opens the reload websocket.
	Index http.Handler

	// ReadBufferSize/WriteBufferSize size the websocket upgrader's
	// buffers, mirroring the teacher's server.Config knobs.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header on upgrade. Defaults to
	// allowing same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = "localhost:5173"
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 1024
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Index == nil {
		c.Index = http.HandlerFunc(serveDefaultIndex)
	}
}

// ReloadMessage is pushed to every connected tab on Broadcast. Kind is
// "reload" (full page reload) or "static" (styles/assets only need a
// re-fetch); Seq increments with every broadcast so a client can detect
// it missed one while reconnecting.
type ReloadMessage struct {
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
	Seq  uint64 `json:"seq"`
}

// Server serves the preview page and fans recompile notifications out
// to every connected browser tab.
type Server struct {
	cfg      Config
	mux      *chi.Mux
	upgrader websocket.Upgrader
	http     *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
	seq     atomic.Uint64
}

type client struct {
	conn *websocket.Conn
	send chan ReloadMessage
	done chan struct{}
}

// New builds a Server from cfg, wiring its chi router: "/" the preview
// page, "/__reload" the websocket upgrade, "/static/*" optional static
// assets.
func New(cfg Config) *Server {
	cfg.applyDefaults()

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		clients: make(map[*client]struct{}),
	}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/__reload", s.handleReload)
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}
	s.mux = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) { s.cfg.Index.ServeHTTP(w, r) }

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Logger.Error("reload upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan ReloadMessage, 8), done: make(chan struct{})}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards incoming frames (the protocol is server-to-client
// only) and exits when the connection closes, tearing the client down.
func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				s.removeClient(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.done)
		c.conn.Close()
	}
	s.mu.Unlock()
}

// Broadcast pushes a ReloadMessage of kind ("reload" or "static") for
// path to every connected tab. Non-blocking: a client whose send buffer
// is full is dropped rather than stalling the broadcaster.
func (s *Server) Broadcast(kind, path string) {
	msg := ReloadMessage{Kind: kind, Path: path, Seq: s.seq.Add(1)}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			delete(s.clients, c)
			close(c.done)
			c.conn.Close()
		}
	}
}

// ClientCount reports how many tabs are currently connected.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ListenAndServe starts the HTTP server, blocking until it stops.
func (s *Server) ListenAndServe() error {
	s.mu.Lock()
	s.http = &http.Server{Addr: s.cfg.Address, Handler: s}
	s.mu.Unlock()
	s.cfg.Logger.Info("dev server listening", "address", s.cfg.Address)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server and closes every connected
// websocket client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.done)
		c.conn.Close()
		delete(s.clients, c)
	}
	httpServer := s.http
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

func serveDefaultIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

const defaultIndexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>vuecore dev</title></head>
<body>
<script>
(function connect() {
  var ws = new WebSocket("ws://" + location.host + "/__reload");
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.kind === "reload") location.reload();
  };
  ws.onclose = function() { setTimeout(connect, 1000); };
})();
</script>
</body>
</html>`
