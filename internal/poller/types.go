// internal/poller/types.go
package poller

import (
	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// State is the polling engine state.
type State int

const (
	// Blocked: polling suspended, the bus link is a slave.
	Blocked State = iota
	// MasterActive: the hub owns the bus and polls round-robin.
	MasterActive
)

func (s State) String() string {
	if s == MasterActive {
		return "master_active"
	}
	return "blocked"
}

// Code maps the state onto the status mirror code.
func (s State) Code() uint16 {
	if s == MasterActive {
		return status.EngineMasterActive
	}
	return status.EngineBlocked
}

// LinkControl is the part of the bus link the engine drives.
type LinkControl interface {
	SetPrivilege(p link.Privilege)
	LocalAddress() uint8
	BroadcastAddress() uint8
}

// Stats are engine counters, exported through logs and tests.
type Stats struct {
	Queries    uint64
	Broadcasts uint64
	Silences   uint64
	Offline    uint64
	Blocks     uint64
}
