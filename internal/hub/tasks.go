// internal/hub/tasks.go
package hub

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/poller"
)

// producers are the goroutines feeding the main loop.
// None of them touches State directly.
func (h *Hub) producers() []func(context.Context) error {
	ps := []func(context.Context) error{
		h.serve("bus", h.dev.Bus, func(s *State) *link.Link { return s.Bus }),
		h.serve("ble", h.dev.BLE, func(s *State) *link.Link { return s.BLE }),
		h.tick,
		h.sample,
		h.gate,
	}
	if h.dev.Connection != nil {
		ps = append(ps, h.watchConnection)
	}
	if h.dev.Mirror != nil {
		ps = append(ps, h.mirror)
	}
	return ps
}

// serve pumps inbound frames of one port into its link.
func (h *Hub) serve(name string, p Port, pick func(*State) *link.Link) func(context.Context) error {
	return func(ctx context.Context) error {
		err := p.Run(ctx, func(frame []byte) {
			f := append([]byte(nil), frame...)
			h.Dispatch(ctx, func(s *State) error {
				pick(s).ProcessPacket(f)
				return nil
			})
		})
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("hub: %s port: %w", name, err)
		}
		return nil
	}
}

// tick drives the bus link clock (reload and silence timeout).
func (h *Hub) tick(ctx context.Context) error {
	t := time.NewTicker(h.cfg.TickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			h.Dispatch(ctx, func(s *State) error {
				s.Bus.Tick(now)
				return nil
			})
		}
	}
}

// sample reads the battery ADC off the loop and hands the value over.
func (h *Hub) sample(ctx context.Context) error {
	t := time.NewTicker(h.cfg.SampleInterval)
	defer t.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}

		raw, err := h.dev.ADC.Sample()
		if err != nil {
			if !failing {
				h.log.Warn("battery sample failed", "error", err)
				failing = true
			}
			continue
		}
		if failing {
			h.log.Info("battery sampling recovered")
			failing = false
		}

		h.Dispatch(ctx, func(s *State) error {
			s.Battery.OnSample(raw)
			return nil
		})
	}
}

// gate runs the slow engine check: once after the startup delay, then
// every recheck period while the engine is Blocked.
func (h *Hub) gate(ctx context.Context) error {
	delay := time.NewTimer(h.cfg.StartupDelay)
	defer delay.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-delay.C:
	}

	check := func() {
		h.Dispatch(ctx, func(s *State) error {
			if s.Engine.State() == poller.Blocked {
				s.Engine.Recheck()
			}
			return nil
		})
	}
	check()

	t := time.NewTicker(h.cfg.Recheck)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			check()
		}
	}
}

// watchConnection polls the Bluetooth connection input.
func (h *Hub) watchConnection(ctx context.Context) error {
	t := time.NewTicker(h.cfg.ConnectionPoll)
	defer t.Stop()

	last, known := false, false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}

		on := h.dev.Connection.Active()
		if known && on == last {
			continue
		}
		last, known = on, true

		h.Dispatch(ctx, func(s *State) error {
			s.setConnected(on)
			return nil
		})
	}
}

// mirror copies the status out of the loop and writes it to the Modbus
// endpoint from this goroutine.
func (h *Hub) mirror(ctx context.Context) error {
	t := time.NewTicker(h.cfg.MirrorInterval)
	defer t.Stop()

	failing := false
	for {
		snap, err := h.Snapshot(ctx)
		if err != nil {
			return nil
		}

		if err := h.dev.Mirror.WriteStatus(snap); err != nil {
			if !failing {
				h.log.Warn("status mirror write failed", "error", err)
				failing = true
			}
		} else if failing {
			h.log.Info("status mirror recovered")
			failing = false
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
