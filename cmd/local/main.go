package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"blockfall/internal/audio"
	"blockfall/internal/catalog"
	"blockfall/internal/config"
	"blockfall/internal/game"
	"blockfall/internal/render"
	"blockfall/internal/server"
)

const logDir = "logs"

// setupLogging discards logs unless debug is set, in which case they go to a
// timestamped file under logDir. The caller closes the returned file.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	name := filepath.Join(logDir, fmt.Sprintf("blockfall-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.Ltime | log.Lshortfile)
	return f
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults when empty)")
	debugLog := flag.Bool("debug", false, "write logs to "+logDir+"/")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if f := setupLogging(*debugLog); f != nil {
		defer f.Close()
	}

	if err := run(*configPath, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, mute bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cat, err := catalog.Resolve(cfg.Pieces.Catalog)
	if err != nil {
		return err
	}

	name := os.Getenv("USER")
	if name == "" {
		name = "player"
	}
	sess, err := server.NewSession(name, server.GameSettings{
		Board:   cfg.Game(),
		Kinds:   cat.Kinds,
		Factory: cfg.Pieces.Factory,
		Seed:    cfg.Pieces.Seed,
	}, log.Default())
	if err != nil {
		return err
	}

	if cfg.Audio.Enabled && !mute {
		cues, err := audio.New(cfg.Audio.Volume)
		if err != nil {
			// Non-fatal, game can run without sound
			log.Printf("Audio initialization failed: %v", err)
		}
		defer cues.Close()
		sess.Board().SetLockListener(func(ev game.LockEvent) {
			if ev.Overflow {
				cues.Overflow()
			} else {
				cues.Lock()
			}
		})
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "panic: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(2)
		}
	}()
	screen.SetTitle("blockfall")
	screen.HideCursor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.Run(ctx)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / game.RenderRate)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a := render.ActionForKey(ev)
				if a == game.ActionQuit {
					return nil
				}
				if a != game.ActionNone {
					sess.Send(a)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			render.Paint(screen, sess.Frame())
			if sess.TakeBell() {
				screen.Beep()
			}
		}
	}
}
