// Package throttle absorbs bursts of transcript-change events into a single
// downstream attempt per conversation and cooldown window.
package throttle

import (
	"time"

	"replydraft/internal/engine/state"
)

// Gate applies a fixed cooldown between attempts for one conversation.
type Gate struct {
	cooldown time.Duration
	now      func() time.Time
}

func NewGate(cooldown time.Duration) *Gate {
	return &Gate{cooldown: cooldown, now: time.Now}
}

// NewGateWithClock is used by tests to control time.
func NewGateWithClock(cooldown time.Duration, now func() time.Time) *Gate {
	return &Gate{cooldown: cooldown, now: now}
}

// ShouldThrottle reports whether the conversation attempted work within the
// cooldown. LastAttemptAt advances on every call regardless of the answer;
// a steady stream of events therefore keeps the gate closed until the
// stream pauses for a full cooldown. Dropped events are not a correctness
// problem: a later event supersedes them.
func (g *Gate) ShouldThrottle(conv *state.Conversation) bool {
	now := g.now()
	last := conv.LastAttemptAt
	conv.LastAttemptAt = now
	return !last.IsZero() && now.Sub(last) < g.cooldown
}
