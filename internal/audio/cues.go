// Package audio plays short synthesized cues for local play.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

const (
	lockDuration     = 60 * time.Millisecond
	overflowDuration = 600 * time.Millisecond
	releaseTail      = 20 * time.Millisecond
)

// Cues owns the speaker and a mixer that cue streamers are added to.
// A zero or failed Cues is silent.
type Cues struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
	volume  float64
}

// New initializes the speaker. When no audio device is available the
// returned Cues is silent and the error says why.
func New(volume float64) (*Cues, error) {
	c := &Cues{mixer: &beep.Mixer{}, volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return c, err
	}
	speaker.Play(c.mixer)
	c.enabled = true
	return c, nil
}

// Enabled reports whether cues reach a speaker.
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Lock plays a short click when a piece joins the stack.
func (c *Cues) Lock() {
	c.play(LockStreamer(c.volume))
}

// Overflow plays a falling two-note tone when the stack overflows.
func (c *Cues) Overflow() {
	c.play(OverflowStreamer(c.volume))
}

// Close silences the mixer and releases the speaker.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.enabled = false
}

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// LockStreamer builds the lock cue.
func LockStreamer(volume float64) beep.Streamer {
	return withVolume(Tone(660, lockDuration), volume)
}

// OverflowStreamer builds the overflow cue.
func OverflowStreamer(volume float64) beep.Streamer {
	half := overflowDuration / 2
	return withVolume(beep.Seq(Tone(440, half), Tone(220, half)), volume)
}

// Tone is a sine wave of freq Hz lasting d, with a linear release tail.
func Tone(freq float64, d time.Duration) beep.Streamer {
	return &tone{
		step:    freq / float64(sampleRate),
		total:   sampleRate.N(d),
		release: min(sampleRate.N(releaseTail), sampleRate.N(d)),
	}
}

type tone struct {
	phase, step float64
	pos, total  int
	release     int
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		vol := 1.0
		if left := t.total - t.pos; left < t.release {
			vol = float64(left) / float64(t.release)
		}
		v := math.Sin(2*math.Pi*t.phase) * vol
		samples[i][0], samples[i][1] = v, v
		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// math.Log2(0) is -Inf, so zero volume is silent instead.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
