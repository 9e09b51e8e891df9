// Package watch serves a websocket connection that streams per-pass
// PassStat events to a connected client every time a watched source
// file is recompiled, grounded on the teacher's own pattern of
// wrapping a gorilla/websocket upgrade behind a small broadcast API.
package watch

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"tapec/internal/ir"
	"tapec/internal/optimize"
	"tapec/internal/parser"
)

// Event is one message sent to every connected client after a
// recompile: the full per-pass stats plus any parse error encountered.
type Event struct {
	Source string              `json:"source"`
	Error  string              `json:"error,omitempty"`
	Passes []optimize.PassStat `json:"passes,omitempty"`
}

// Server upgrades incoming connections and broadcasts an Event to all
// of them whenever Recompile is called.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers it for broadcasts.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go s.drain(conn)
}

// drain discards inbound client traffic (this server only pushes) and
// deregisters the connection once it closes.
func (s *Server) drain(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Recompile parses and optimizes source, then broadcasts the
// resulting Event to every connected client.
func (s *Server) Recompile(source string) {
	ev := Event{Source: source}

	prog, err := parser.Parse(source)
	if err != nil {
		ev.Error = err.Error()
	} else {
		_, stats := optimize.OptimizeWithStats(ir.Lower(prog))
		ev.Passes = stats
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("watch: marshal event: %v", err)
		return
	}
	s.broadcast(payload)
}

func (s *Server) broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// ListenAndServe starts the HTTP server hosting the websocket endpoint
// at /ws, on the address given by `tapec watch -addr host:port`.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	log.Printf("watch: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
