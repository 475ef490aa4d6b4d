// internal/fault/tracker.go
package fault

import "github.com/tamzrod/scoreboard-hub/internal/registry"

// DefaultThreshold is the number of consecutive failures tolerated as bus
// noise before a node is declared offline.
const DefaultThreshold = 10

// Presence is the part of the status aggregator the tracker drives.
type Presence interface {
	ClearPresence(i registry.Index)
}

// Tracker counts consecutive communication failures per node.
//
// A counter climbs to the threshold, clears the presence bit on the call
// that reaches it, then moves once more to threshold+1 and stays there.
// The clear therefore happens exactly once per outage.
type Tracker struct {
	counts    []uint8
	threshold uint8
	presence  Presence
}

// New creates a tracker for nodes counters.
// threshold <= 0 selects DefaultThreshold.
func New(nodes int, threshold int, presence Presence) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if threshold > 254 {
		threshold = 254
	}
	return &Tracker{
		counts:    make([]uint8, nodes),
		threshold: uint8(threshold),
		presence:  presence,
	}
}

func (t *Tracker) valid(i registry.Index) bool {
	return i >= 0 && int(i) < len(t.counts)
}

// OnSuccess resets the counter of node i.
func (t *Tracker) OnSuccess(i registry.Index) {
	if t.valid(i) {
		t.counts[i] = 0
	}
}

// OnSilence records one failure for node i.
// It returns true only on the call that declares the node offline.
func (t *Tracker) OnSilence(i registry.Index) bool {
	if !t.valid(i) {
		return false
	}

	c := t.counts[i]
	if c > t.threshold {
		return false
	}

	c++
	t.counts[i] = c
	if c != t.threshold {
		return false
	}

	if t.presence != nil {
		t.presence.ClearPresence(i)
	}
	return true
}

// Reset zeroes every counter.
func (t *Tracker) Reset() {
	for i := range t.counts {
		t.counts[i] = 0
	}
}

// Count returns the counter of node i (0 for invalid indexes).
func (t *Tracker) Count(i registry.Index) int {
	if !t.valid(i) {
		return 0
	}
	return int(t.counts[i])
}

// Offline reports whether node i has crossed the threshold.
func (t *Tracker) Offline(i registry.Index) bool {
	return t.valid(i) && t.counts[i] >= t.threshold
}

// Threshold returns the configured threshold.
func (t *Tracker) Threshold() int { return int(t.threshold) }

// Counts copies every counter, widened for the status mirror.
func (t *Tracker) Counts() []uint16 {
	out := make([]uint16, len(t.counts))
	for i, c := range t.counts {
		out[i] = uint16(c)
	}
	return out
}
