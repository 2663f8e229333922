// Package preview mirrors rendered frames to websocket clients and serves a
// health endpoint. It is read-only: clients cannot change device state.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/render"
)

const (
	// MaxFPS caps the broadcast rate; the device renders far faster.
	MaxFPS       = 30
	writeTimeout = 200 * time.Millisecond
)

// Server is a led.Sink. Write never blocks and never waits on a client: it
// keeps only the newest frame and the broadcaster started by Run sends it at
// most MaxFPS times a second. mu guards the client sets only; socket writes
// happen outside it.
type Server struct {
	mu          sync.RWMutex
	m           layout.Matrix
	reg         metrics.Registry
	log         zerolog.Logger
	frameID     atomic.Uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool

	inbox chan frame
	diags chan diag.Diagnostic
	up    websocket.Upgrader
}

type frame struct {
	id uint64
	px []render.Color
}

func New(m layout.Matrix, reg metrics.Registry, log zerolog.Logger) *Server {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Server{
		m:           m,
		reg:         reg,
		log:         log,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		inbox:       make(chan frame, 1),
		diags:       make(chan diag.Diagnostic, 16),
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Write queues a copy of px, replacing any frame not yet broadcast.
func (s *Server) Write(px []render.Color) error {
	f := frame{id: s.frameID.Add(1), px: append([]render.Color(nil), px...)}
	for {
		select {
		case s.inbox <- f:
			return nil
		default:
		}
		select {
		case <-s.inbox:
		default:
		}
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
	for c := range s.diagClients {
		c.Close()
		delete(s.diagClients, c)
	}
	return nil
}

// Report queues d for diagnostic clients. Dropped if the queue is full.
func (s *Server) Report(d diag.Diagnostic) {
	select {
	case s.diags <- d:
	default:
	}
}

// Run broadcasts queued frames and diagnostics until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / MaxFPS)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-s.diags:
			s.pushDiag(d)
		case <-ticker.C:
			select {
			case f := <-s.inbox:
				s.broadcastFrame(f)
			default:
			}
		}
	}
}

// Handler routes /frames, /diag and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// ListenAndServe serves Handler on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info().Str("addr", addr).Msg("preview listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.sendTopology(conn)
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

// drain discards client messages until the connection drops.
func (s *Server) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID.Load(),
		"uptime_s": time.Since(s.startTime).Seconds(),
		"count":    s.m.Count(),
		"clients":  clients,
		"metrics":  s.reg.GetAll(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type topology struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Wiring []layout.Cell `json:"wiring"`
}

func (s *Server) sendTopology(conn *websocket.Conn) {
	b, _ := json.Marshal(topology{Width: s.m.Width, Height: s.m.Height, Wiring: s.m.Wiring})
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

type frameMsg struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

func (s *Server) broadcastFrame(f frame) {
	rgb := make([]byte, 0, 3*len(f.px))
	for _, c := range f.px {
		rgb = append(rgb, c.R, c.G, c.B)
	}
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: f.id, RGB: rgb})
	s.send(s.snapshot(s.clients), b)
}

func (s *Server) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.send(s.snapshot(s.diagClients), b)
}

func (s *Server) snapshot(set map[*websocket.Conn]bool) []*websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*websocket.Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// send writes b to each conn. A client that cannot keep up within
// writeTimeout is disconnected; its drain goroutine removes it.
func (s *Server) send(conns []*websocket.Conn, b []byte) {
	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("preview client dropped")
			c.Close()
		}
	}
}
