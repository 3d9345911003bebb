package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sparkdice/internal/buildinfo"
)

const clientQueue = 32

// Server serves the spectator feed on /ws and a JSON snapshot on /state.
//
// Upgraded connections are invisible to http.Server; Shutdown ends them
// through base.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	srv      *http.Server
	ln       net.Listener

	base context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	closing bool
	active  sync.WaitGroup
}

func NewServer(hub *Hub) *Server {
	base, stop := context.WithCancel(context.Background())
	s := &Server{
		base: base,
		stop: stop,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/state", s.handleState)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.srv.RegisterOnShutdown(stop)
	return s
}

// Handler exposes the routes for embedding or tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stream: listen %s: %w", addr, err)
	}
	s.ln = ln
	go func() { _ = s.srv.Serve(ln) }()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting requests, closes every spectator connection and
// waits for their handlers to return or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	err := s.srv.Shutdown(ctx)
	s.stop()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// track registers a websocket handler; it reports false once Shutdown began.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.active.Add(1)
	return true
}

func (s *Server) handleState(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(s.hub.State())
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(rw, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.active.Done()

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	st := s.hub.State()
	hello, err := json.Marshal(Event{Type: TypeHello, Version: buildinfo.String(), State: &st})
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}

	c := s.hub.add(clientQueue)
	defer s.hub.remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: spectators send nothing meaningful; reading only detects close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.base.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		case b := <-c.out:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
