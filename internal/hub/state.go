// internal/hub/state.go
package hub

import (
	"log/slog"
	"time"

	"github.com/tamzrod/scoreboard-hub/internal/battery"
	"github.com/tamzrod/scoreboard-hub/internal/datagram"
	"github.com/tamzrod/scoreboard-hub/internal/fault"
	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/poller"
	"github.com/tamzrod/scoreboard-hub/internal/registry"
	"github.com/tamzrod/scoreboard-hub/internal/score"
	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// Heartbeat patterns of the connection indicator.
const (
	heartbeatIdlePeriod      = 500 * time.Millisecond
	heartbeatIdleDuty        = 50
	heartbeatConnectedPeriod = 3000 * time.Millisecond
	heartbeatConnectedDuty   = 2
)

// State is every piece of hub state.
// It is only touched from the dispatch loop, so nothing in it is locked.
type State struct {
	Registry *registry.Registry
	Status   *status.Aggregator
	Faults   *fault.Tracker
	Score    *score.Params
	Battery  *battery.Monitor
	Engine   *poller.Engine

	Bus *link.Link
	BLE *link.Link

	Settings uint8

	connected bool
	heartbeat Blinker
	log       *slog.Logger
}

// Connected reports whether the Bluetooth module has a peer.
func (s *State) Connected() bool { return s.connected }

// setConnected applies a connection input change.
func (s *State) setConnected(on bool) {
	if on == s.connected {
		return
	}
	s.connected = on
	s.applyHeartbeat()
	s.log.Info("bluetooth connection changed", "connected", on)
}

func (s *State) applyHeartbeat() {
	if s.heartbeat == nil {
		return
	}
	if s.connected {
		s.heartbeat.SetTimer(heartbeatConnectedPeriod, heartbeatConnectedDuty)
	} else {
		s.heartbeat.SetTimer(heartbeatIdlePeriod, heartbeatIdleDuty)
	}
}

// Snapshot copies the mirrored part of the state.
func (s *State) Snapshot() status.Snapshot {
	return status.Snapshot{
		Bitmap:      s.Status.Get(),
		Centivolts:  status.Centivolts(s.Battery.Voltage()),
		Settings:    uint16(s.Settings),
		EngineState: s.Engine.State().Code(),
		Faults:      s.Faults.Counts(),
	}
}

// busSink hands reload and silence events of the bus link to the engine.
// The engine is built after the link it controls.
type busSink struct{ s *State }

func (b busSink) OnReload(dt *datagram.Datagram) bool { return b.s.Engine.OnReload(dt) }

func (b busSink) OnSilence() { b.s.Engine.OnSilence() }
