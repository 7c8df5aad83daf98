package game

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"
)

// InputChanSize bounds the number of queued input actions per board.
const InputChanSize = 256

// DriverOptions configures a Driver.
type DriverOptions struct {
	// OnOverflow runs synchronously on the driver goroutine when a lock
	// overflows the board. The board is already paused at that point.
	OnOverflow func(*OverflowError)
	Logger     *log.Logger
}

// Driver is the timed descent loop for one board. Run is the only goroutine
// that moves the board; inputs are queued through Input and applied between
// ticks.
type Driver struct {
	board      *Board
	inputCh    chan Action
	onOverflow func(*OverflowError)
	log        *log.Logger

	ticks atomic.Uint64
}

// NewDriver creates a driver for b.
func NewDriver(b *Board, opts DriverOptions) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Driver{
		board:      b,
		inputCh:    make(chan Action, InputChanSize),
		onOverflow: opts.OnOverflow,
		log:        logger,
	}
}

// Board returns the driven board.
func (d *Driver) Board() *Board {
	return d.board
}

// Input returns the channel input sources send actions on.
func (d *Driver) Input() chan<- Action {
	return d.inputCh
}

// Ticks returns how many ticks have fired.
func (d *Driver) Ticks() uint64 {
	return d.ticks.Load()
}

// Run ticks the board until ctx is done. Each tick re-arms the timer with the
// board's speed at that moment, so speed changes apply from the next tick.
func (d *Driver) Run(ctx context.Context) error {
	timer := time.NewTimer(d.board.Speed())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-d.inputCh:
			d.Handle(a)
		case <-timer.C:
			d.Tick()
			timer.Reset(d.board.Speed())
		}
	}
}

// Tick performs one descent step. It returns the overflow error, if any,
// after the board has been paused and the notifier has run.
func (d *Driver) Tick() error {
	d.ticks.Add(1)
	if d.board.Paused() {
		return nil
	}
	d.board.SpawnPiece()
	_, err := d.board.MovePiece(DirDown)
	return d.report(err)
}

// Handle applies one input action.
func (d *Driver) Handle(a Action) error {
	switch a {
	case ActionStart:
		d.board.StartGame()
		d.log.Printf("game started")
		return nil
	case ActionSoftDrop:
		soft := d.board.ToggleSoftDrop()
		d.log.Printf("soft drop %v, speed %v", soft, d.board.Speed())
		return nil
	case ActionPause:
		if d.board.Paused() {
			d.board.Resume()
		} else {
			d.board.Pause()
		}
		return nil
	}

	dir, ok := a.Direction()
	if !ok {
		return nil
	}
	if d.board.Paused() {
		return nil
	}
	d.board.SpawnPiece()
	_, err := d.board.MovePiece(dir)
	return d.report(err)
}

func (d *Driver) report(err error) error {
	if err == nil {
		return nil
	}
	var overflow *OverflowError
	if errors.As(err, &overflow) {
		d.log.Printf("game over: %v", overflow)
		if d.onOverflow != nil {
			d.onOverflow(overflow)
		}
		return err
	}
	d.log.Printf("move failed: %v", err)
	return err
}
