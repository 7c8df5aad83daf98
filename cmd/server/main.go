package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"

	"blockfall/internal/catalog"
	"blockfall/internal/config"
	"blockfall/internal/server"
	"blockfall/internal/spectate"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults when empty)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.Server.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	cat, err := catalog.Resolve(cfg.Pieces.Catalog)
	if err != nil {
		log.Fatalf("Catalog error: %v", err)
	}
	names := make([]string, len(cat.Kinds))
	for i, k := range cat.Kinds {
		names[i] = k.Name
	}
	log.Printf("Catalog loaded: %s (%s)", cat.Name, strings.Join(names, " "))

	g := cfg.Game()
	log.Printf("Board %dx%d (%dpx tiles), %s factory, fall %v / soft drop %v",
		g.Columns(), g.Rows(), g.TileSize, cfg.Pieces.Factory, g.NormalSpeed, g.SoftDropSpeed)

	settings := server.GameSettings{
		Board:   g,
		Kinds:   cat.Kinds,
		Factory: cfg.Pieces.Factory,
		Seed:    cfg.Pieces.Seed,
	}

	var registry server.Registry
	if cfg.Server.SpectateAddr != "" {
		hub := spectate.NewHub(log.Default())
		hub.AllowRemote = cfg.Server.SpectateRemote
		registry = hub
		httpSrv := &http.Server{Addr: cfg.Server.SpectateAddr, Handler: hub.Handler()}
		go func() {
			log.Printf("Spectators: http://%s/sessions", cfg.Server.SpectateAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Spectator server error: %v", err)
			}
		}()
		defer httpSrv.Close()
	}

	sshServer := server.NewSSHServer(cfg.Server.Addr, cfg.Server.HostKey, settings, registry, log.Default())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sshServer.Shutdown(ctx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	// Start SSH server (blocks)
	log.Printf("Starting blockfall, connect with: ssh -p %s YourName@localhost", portOf(cfg.Server.Addr))
	if err := sshServer.Start(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Fatalf("SSH server error: %v", err)
	}
}

func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
