// Package spectate streams live boards to websocket viewers.
package spectate

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blockfall/internal/game"
	"blockfall/internal/render"
	"blockfall/internal/server"
)

// Source is a board that can be watched.
type Source interface {
	Version() uint64
	Frame() render.Frame
}

type entry struct {
	id   string
	name string
	src  Source
	done chan struct{}
}

// Hub tracks live sessions and serves them to spectators.
type Hub struct {
	log *log.Logger

	// AllowRemote admits non-loopback clients.
	AllowRemote bool

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		log:      logger,
		sessions: map[string]*entry{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register makes an SSH session watchable until the returned func is called.
func (h *Hub) Register(s *server.Session) func() {
	return h.Add(s.ID, s.Name, s)
}

// Add makes src watchable under id until the returned func is called.
// Viewers of a removed source are disconnected.
func (h *Hub) Add(id, name string, src Source) func() {
	e := &entry{id: id, name: name, src: src, done: make(chan struct{})}
	h.mu.Lock()
	h.sessions[id] = e
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			if h.sessions[id] == e {
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			close(e.done)
		})
	}
}

func (h *Hub) lookup(id string) *entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[id]
}

// SessionInfo is one row of the session listing.
type SessionInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
	Locks int    `json:"locks"`
}

// Sessions lists the watchable sessions ordered by name.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.Lock()
	entries := make([]*entry, 0, len(h.sessions))
	for _, e := range h.sessions {
		entries = append(entries, e)
	}
	h.mu.Unlock()

	out := make([]SessionInfo, 0, len(entries))
	for _, e := range entries {
		st := e.src.Frame().Status
		out = append(out, SessionInfo{ID: e.id, Name: e.name, State: st.State.String(), Locks: st.Locks})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Handler serves GET /sessions and the /ws stream.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", h.SessionsHandler())
	mux.HandleFunc("/ws", h.WSHandler())
	return mux
}

func (h *Hub) SessionsHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !h.admit(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(h.Sessions())
	}
}

// WSHandler streams FRAME messages for ?session=<id> whenever the board
// changes.
func (h *Hub) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !h.admit(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		e := h.lookup(r.URL.Query().Get("session"))
		if e == nil {
			http.Error(rw, "unknown session", http.StatusNotFound)
			return
		}

		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		h.log.Printf("spectator joined %s (%s)", e.name, conn.RemoteAddr())
		defer h.log.Printf("spectator left %s (%s)", e.name, conn.RemoteAddr())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			writeErr <- h.stream(ctx, conn, e)
		}()

		// Reader loop: spectators send nothing, but reading notices closes.
		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		reason := "bye"
		select {
		case <-readDone:
		case <-e.done:
			reason = "session ended"
		case <-writeErr:
			return
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, e *entry) error {
	ticker := time.NewTicker(time.Second / game.RenderRate)
	defer ticker.Stop()

	var (
		sent       bool
		lastVer    uint64
		lastStatus game.Status
	)
	for {
		ver := e.src.Version()
		f := e.src.Frame()
		if !sent || ver != lastVer || f.Status != lastStatus {
			b, err := json.Marshal(NewFrameMsg(e.id, ver, f))
			if err != nil {
				return err
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return err
			}
			sent, lastVer, lastStatus = true, ver, f.Status
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (h *Hub) admit(r *http.Request) bool {
	return h.AllowRemote || isLoopbackRemote(r.RemoteAddr)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
