package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"

	"blockfall/internal/game"
	"blockfall/internal/render"
)

// Registry is told about sessions as they come and go, e.g. a spectator hub.
type Registry interface {
	Register(s *Session) (unregister func())
}

// SSHServer wraps the SSH listener and runs one game per session.
type SSHServer struct {
	addr     string
	hostKey  string
	settings GameSettings
	registry Registry
	log      *log.Logger

	mu  sync.Mutex
	srv *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
// registry may be nil.
func NewSSHServer(addr, hostKey string, gs GameSettings, registry Registry, logger *log.Logger) *SSHServer {
	if logger == nil {
		logger = log.Default()
	}
	return &SSHServer{
		addr:     addr,
		hostKey:  hostKey,
		settings: gs,
		registry: registry,
		log:      logger,
	}
}

// Start begins listening for SSH connections. It blocks until the server
// is closed.
func (s *SSHServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.log.Printf("SSH server listening on %s", ln.Addr())
	return s.Serve(ln)
}

// Serve accepts SSH connections on ln. Without a host key file a throwaway
// key is generated.
func (s *SSHServer) Serve(ln net.Listener) error {
	srv := &ssh.Server{
		Handler: s.handleSession,
	}
	if s.hostKey != "" {
		if err := srv.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	return srv.Serve(ln)
}

// Shutdown stops accepting sessions and waits for open ones until ctx ends.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	gs, err := NewSession(username, s.settings, s.log)
	if err != nil {
		s.log.Printf("session setup failed for %s: %v", username, err)
		fmt.Fprintln(sess, "Error: could not start a game")
		return
	}

	s.log.Printf("Player connected: %s (%s)", username, gs.ID)
	defer s.log.Printf("Player disconnected: %s (%s)", username, gs.ID)

	if s.registry != nil {
		defer s.registry.Register(gs)()
	}

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()
	go gs.Run(ctx)

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	io.WriteString(sess, render.SetTitle("blockfall - "+username))
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, action := range ParseInput(buf[:n]) {
				if action == game.ActionQuit {
					return
				}
				gs.Send(action)
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
		}
	}()

	ticker := time.NewTicker(time.Second / game.RenderRate)
	defer ticker.Stop()

	for {
		select {
		case <-quitCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			output := engine.Render(gs.Frame(), w, h)
			if gs.TakeBell() {
				output += render.Bell()
			}
			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}
