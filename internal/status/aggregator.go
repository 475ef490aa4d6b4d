// internal/status/aggregator.go
package status

import "github.com/tamzrod/scoreboard-hub/internal/registry"

// Bitmap is the shared status word: presence bits plus battery flags.
type Bitmap uint16

// Present reports whether node i has its presence bit set.
func (b Bitmap) Present(i int) bool {
	if i < 0 || i >= MaxPresenceBits {
		return false
	}
	return b&(1<<uint(i)) != 0
}

// Has reports whether every bit of flag is set.
func (b Bitmap) Has(flag Bitmap) bool { return b&flag == flag }

// Aggregator owns the StatusBitmap.
// It is driven from the dispatch loop only and holds no lock.
type Aggregator struct {
	bits  Bitmap
	nodes int
}

// NewAggregator creates a blank bitmap for nodes presence bits.
func NewAggregator(nodes int) *Aggregator {
	if nodes > MaxPresenceBits {
		nodes = MaxPresenceBits
	}
	return &Aggregator{nodes: nodes}
}

func (a *Aggregator) inRange(i registry.Index) bool {
	return i >= 0 && int(i) < a.nodes
}

// SetPresence marks node i healthy.
func (a *Aggregator) SetPresence(i registry.Index) {
	if a.inRange(i) {
		a.bits |= 1 << uint(i)
	}
}

// ClearPresence marks node i offline.
func (a *Aggregator) ClearPresence(i registry.Index) {
	if a.inRange(i) {
		a.bits &^= 1 << uint(i)
	}
}

// ResetPresence clears every presence bit and keeps the battery flags.
func (a *Aggregator) ResetPresence() {
	a.bits &^= presenceMask
}

// SetChargeFlags replaces the three battery flags in one step.
func (a *Aggregator) SetChargeFlags(charging, charged, low bool) {
	b := a.bits &^ (FlagCharging | FlagCharged | FlagBatteryLow)
	if charging {
		b |= FlagCharging
	}
	if charged {
		b |= FlagCharged
	}
	if low {
		b |= FlagBatteryLow
	}
	a.bits = b
}

// Has reports whether flag is currently set.
func (a *Aggregator) Has(flag Bitmap) bool { return a.bits.Has(flag) }

// Get returns the current bitmap.
func (a *Aggregator) Get() Bitmap { return a.bits }

// Nodes is the number of presence bits in use.
func (a *Aggregator) Nodes() int { return a.nodes }
