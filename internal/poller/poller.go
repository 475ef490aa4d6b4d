// internal/poller/poller.go
package poller

import (
	"errors"
	"log/slog"

	"github.com/tamzrod/scoreboard-hub/internal/datagram"
	"github.com/tamzrod/scoreboard-hub/internal/fault"
	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/registry"
	"github.com/tamzrod/scoreboard-hub/internal/score"
	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// Engine is the bus master: one request per reload tick, round-robin over
// the registry with a broadcast slot at the end of every cycle.
//
// The cursor runs 0..N. Values below N query that node, N pushes the score
// buffer to every node. A pending score update preempts a query without
// consuming its slot, so the preempted node is asked on the next tick.
type Engine struct {
	reg     *registry.Registry
	agg     *status.Aggregator
	tracker *fault.Tracker
	params  *score.Params
	lc      LinkControl
	log     *slog.Logger

	state       State
	cursor      int
	lastQueried registry.Index

	// lastSilenced is the node whose query already timed out. A late
	// failing answer to that query is not charged again.
	lastSilenced registry.Index

	stats Stats
}

// New creates an engine in the Blocked state.
func New(
	reg *registry.Registry,
	agg *status.Aggregator,
	tracker *fault.Tracker,
	params *score.Params,
	lc LinkControl,
	log *slog.Logger,
) (*Engine, error) {
	if reg == nil || agg == nil || tracker == nil || params == nil {
		return nil, errors.New("poller: registry, aggregator, tracker and params required")
	}
	if lc == nil {
		return nil, errors.New("poller: link control required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		reg:          reg,
		agg:          agg,
		tracker:      tracker,
		params:       params,
		lc:           lc,
		log:          log,
		state:        Blocked,
		lastQueried:  reg.Invalid(),
		lastSilenced: reg.Invalid(),
	}, nil
}

// State returns the current engine state.
func (e *Engine) State() State { return e.state }

// Cursor returns the slot served by the next scheduled tick.
func (e *Engine) Cursor() int { return e.cursor }

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats { return e.stats }

// Recheck is the slow gate timer. While the battery is low it keeps (or
// puts) the engine Blocked; otherwise it enters MasterActive.
// It returns true when the engine is MasterActive afterwards.
func (e *Engine) Recheck() bool {
	if e.agg.Has(status.FlagBatteryLow) {
		if e.state == MasterActive {
			e.block()
		}
		return false
	}
	if e.state != MasterActive {
		e.enterMaster()
	}
	return true
}

func (e *Engine) enterMaster() {
	e.tracker.Reset()
	e.agg.ResetPresence()
	e.cursor = 0
	e.lastQueried = e.reg.Invalid()
	e.lastSilenced = e.reg.Invalid()
	e.state = MasterActive
	e.lc.SetPrivilege(link.Master)
	e.log.Info("bus polling started", "nodes", e.reg.Len())
}

func (e *Engine) block() {
	e.state = Blocked
	e.lastQueried = e.reg.Invalid()
	e.lastSilenced = e.reg.Invalid()
	e.stats.Blocks++
	e.lc.SetPrivilege(link.Slave)
	e.log.Warn("bus polling blocked: battery low")
}

// OnReload builds the next bus request into dt.
// It returns false when nothing must be sent.
func (e *Engine) OnReload(dt *datagram.Datagram) bool {
	if e.agg.Has(status.FlagBatteryLow) {
		if e.state == MasterActive {
			e.block()
		}
		return false
	}
	if e.state != MasterActive {
		return false
	}

	n := e.reg.Len()
	if e.cursor > n {
		e.cursor = 0
	}

	if e.params.TakeDirty() || e.cursor == n {
		e.broadcast(dt)
		if e.cursor == n {
			e.cursor = 0
		}
		return true
	}

	i := registry.Index(e.cursor)
	addr, _ := e.reg.Address(i)

	dt.Destination = uint8(addr)
	dt.Source = e.lc.LocalAddress()
	dt.Command = datagram.CmdGetStatus
	dt.Flush()
	dt.AppendUint16(uint16(e.agg.Get()))

	e.lastQueried = i
	if i == e.lastSilenced {
		e.lastSilenced = e.reg.Invalid()
	}
	e.cursor = (e.cursor + 1) % (n + 1)
	e.stats.Queries++
	return true
}

func (e *Engine) broadcast(dt *datagram.Datagram) {
	buf := e.params.Bytes()

	dt.Destination = e.lc.BroadcastAddress()
	dt.Command = datagram.CmdSetData
	dt.Flush()
	dt.Append(buf[:]...)

	e.lastQueried = e.reg.Invalid()
	e.stats.Broadcasts++
}

// OnSilence charges a failure to the node queried by the last tick.
// Broadcast ticks leave nothing to charge.
func (e *Engine) OnSilence() {
	i := e.lastQueried
	e.lastQueried = e.reg.Invalid()
	if !e.reg.Valid(i) {
		return
	}
	e.lastSilenced = i
	e.stats.Silences++
	e.degrade(i, "silence")
}

// HandleStatus processes a node's status response:
// one self-test byte followed by the node address.
func (e *Engine) HandleStatus(dt *datagram.Datagram) {
	if dt.Length() < 2 {
		return
	}
	bite, _ := dt.Extract()
	addr, _ := dt.Extract()

	i := e.reg.ResolveIndex(registry.Address(addr))
	if !e.reg.Valid(i) {
		e.log.Debug("status from unknown node discarded", "addr", addr)
		return
	}
	if i == e.lastQueried {
		e.lastQueried = e.reg.Invalid()
	}

	late := i == e.lastSilenced
	if late {
		e.lastSilenced = e.reg.Invalid()
	}

	if bite != 0 {
		if late {
			e.log.Debug("late self-test failure already charged", "addr", addr)
			return
		}
		e.degrade(i, "self_test")
		return
	}

	if e.tracker.Offline(i) {
		role, _ := e.reg.Role(i)
		e.log.Info("node back online", "node", role, "addr", addr)
	}
	e.agg.SetPresence(i)
	e.tracker.OnSuccess(i)
}

func (e *Engine) degrade(i registry.Index, reason string) {
	if !e.tracker.OnSilence(i) {
		return
	}
	e.stats.Offline++
	role, _ := e.reg.Role(i)
	addr, _ := e.reg.Address(i)
	e.log.Info("node offline", "node", role, "addr", uint8(addr), "reason", reason)
}
