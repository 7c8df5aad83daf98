package game

import "time"

// RenderRate is how often front ends repaint, in frames per second.
const RenderRate = 20

// Timing defaults, expressed as wall-clock durations.
const (
	DefaultNormalSpeed   = 700 * time.Millisecond // one row per tick at normal fall
	DefaultSoftDropSpeed = 70 * time.Millisecond  // one row per tick while soft dropping
)

// MsToDuration converts a configured millisecond value to a duration, with a 1ms floor.
func MsToDuration(ms int) time.Duration {
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
