// internal/hub/hub.go
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/scoreboard-hub/internal/battery"
	"github.com/tamzrod/scoreboard-hub/internal/datagram"
	"github.com/tamzrod/scoreboard-hub/internal/fault"
	"github.com/tamzrod/scoreboard-hub/internal/link"
	"github.com/tamzrod/scoreboard-hub/internal/poller"
	"github.com/tamzrod/scoreboard-hub/internal/registry"
	"github.com/tamzrod/scoreboard-hub/internal/score"
	"github.com/tamzrod/scoreboard-hub/internal/status"
	"github.com/tamzrod/scoreboard-hub/internal/wireless"
	"github.com/tamzrod/scoreboard-hub/internal/writer"
)

// Port is a framed byte stream: the RS-485 bus or the Bluetooth UART.
type Port interface {
	Write(frame []byte) error
	Run(ctx context.Context, onFrame func(frame []byte)) error
}

// Sampler is the battery ADC.
type Sampler interface {
	Sample() (uint16, error)
}

// Level is a polled digital input.
type Level interface {
	Active() bool
}

// Blinker is an LED with a programmable blink pattern.
type Blinker interface {
	SetTimer(interval time.Duration, duty int)
}

// Devices are the board resources. Only Bus, BLE and ADC are required.
type Devices struct {
	Bus Port
	BLE Port
	ADC Sampler

	Charger    battery.ChargerSense
	ChargedLED battery.Indicator
	Connection Level
	Heartbeat  Blinker
	Mirror     writer.StatusWriter
}

// Config is the resolved runtime setup.
type Config struct {
	Name          string
	Registry      *registry.Registry // nil selects registry.Default()
	LocalAddress  uint8
	Reload        time.Duration
	Timeout       time.Duration
	FaultsAllowed int
	Battery       battery.Config
	Settings      uint8

	TickInterval   time.Duration
	SampleInterval time.Duration
	StartupDelay   time.Duration
	Recheck        time.Duration
	ConnectionPoll time.Duration
	MirrorInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.Registry == nil {
		c.Registry = registry.Default()
	}
	if c.LocalAddress == 0 {
		c.LocalAddress = datagram.AddrHub
	}
	if c.Reload <= 0 {
		c.Reload = 100 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Millisecond
	}
	if c.Battery.Window <= 0 {
		c.Battery = battery.DefaultConfig()
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 5 * time.Millisecond
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = 250 * time.Millisecond
	}
	if c.StartupDelay <= 0 {
		c.StartupDelay = 5 * time.Second
	}
	if c.Recheck <= 0 {
		c.Recheck = time.Second
	}
	if c.ConnectionPoll <= 0 {
		c.ConnectionPoll = 100 * time.Millisecond
	}
	if c.MirrorInterval <= 0 {
		c.MirrorInterval = time.Second
	}
}

// dispatchBacklog bounds queued events before producers block.
const dispatchBacklog = 64

// slowDispatch is the handler duration that gets reported.
const slowDispatch = 50 * time.Millisecond

// Hub owns the State and the single loop that mutates it.
type Hub struct {
	cfg   Config
	dev   Devices
	log   *slog.Logger
	state *State

	dispatch chan func(*State) error
	once     sync.Once
}

// New wires the components. Nothing runs until Run.
func New(cfg Config, dev Devices, log *slog.Logger) (*Hub, error) {
	if dev.Bus == nil || dev.BLE == nil {
		return nil, errors.New("hub: bus and ble ports required")
	}
	if dev.ADC == nil {
		return nil, errors.New("hub: battery adc required")
	}
	if log == nil {
		log = slog.Default()
	}
	cfg.applyDefaults()

	reg := cfg.Registry
	s := &State{
		Registry:  reg,
		Status:    status.NewAggregator(reg.Len()),
		Score:     score.New(),
		Settings:  cfg.Settings,
		heartbeat: dev.Heartbeat,
		log:       log.With("component", "hub"),
	}
	s.Faults = fault.New(reg.Len(), cfg.FaultsAllowed, s.Status)
	s.Battery = battery.New(cfg.Battery, s.Status, dev.Charger, dev.ChargedLED, log.With("component", "battery"))

	bus, err := link.New(link.Config{
		Name:             "bus",
		LocalAddress:     cfg.LocalAddress,
		BroadcastAddress: datagram.AddrBroadcast,
		Reload:           cfg.Reload,
		Timeout:          cfg.Timeout,
		Privilege:        link.Slave,
	}, dev.Bus, busSink{s}, log)
	if err != nil {
		return nil, fmt.Errorf("hub: bus link: %w", err)
	}
	s.Bus = bus

	s.Engine, err = poller.New(reg, s.Status, s.Faults, s.Score, bus, log.With("component", "poller"))
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}
	bus.Handle(datagram.CmdGetStatus, s.Engine.HandleStatus)

	ble, err := link.New(link.Config{
		Name:             "ble",
		LocalAddress:     cfg.LocalAddress,
		BroadcastAddress: datagram.AddrBroadcast,
		Privilege:        link.Slave,
	}, dev.BLE, nil, log)
	if err != nil {
		return nil, fmt.Errorf("hub: ble link: %w", err)
	}
	s.BLE = ble

	wireless.New(wireless.Version, s.Status, s.Score, s.Battery, s, cfg.Settings, log.With("component", "wireless")).Register(ble)

	return &Hub{
		cfg:      cfg,
		dev:      dev,
		log:      log.With("hub", cfg.Name),
		state:    s,
		dispatch: make(chan func(*State) error, dispatchBacklog),
	}, nil
}

// Dispatch queues fun on the main loop without waiting for it.
// It gives up when ctx is done.
func (h *Hub) Dispatch(ctx context.Context, fun func(*State) error) {
	select {
	case h.dispatch <- fun:
	case <-ctx.Done():
	}
}

// DispatchWait runs fun on the main loop and waits for its result.
func (h *Hub) DispatchWait(ctx context.Context, fun func(*State) (any, error)) (any, error) {
	type result struct {
		v   any
		err error
	}
	ret := make(chan result, 1)

	h.Dispatch(ctx, func(s *State) error {
		v, err := fun(s)
		ret <- result{v, err}
		return err
	})

	select {
	case r := <-ret:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot copies the mirrored status from the main loop.
func (h *Hub) Snapshot(ctx context.Context) (status.Snapshot, error) {
	v, err := h.DispatchWait(ctx, func(s *State) (any, error) {
		return s.Snapshot(), nil
	})
	if err != nil {
		return status.Snapshot{}, err
	}
	return v.(status.Snapshot), nil
}

// Run opens the links, starts the producers and executes dispatched
// events until ctx is done or a handler fails. It may be called once.
func (h *Hub) Run(ctx context.Context) error {
	err := errors.New("hub: already running")
	h.once.Do(func() { err = h.run(ctx) })
	return err
}

func (h *Hub) run(parent context.Context) error {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	s := h.state
	s.Bus.Open()
	s.BLE.Open()
	s.applyHeartbeat()

	var wg sync.WaitGroup
	for _, p := range h.producers() {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p(ctx); err != nil {
				cancel(err)
			}
		}()
	}

	h.log.Info("hub started", "nodes", s.Registry.Len(), "settings", s.Settings)
	h.mainLoop(ctx, cancel)

	cancel(nil)
	wg.Wait()

	s.Bus.Close()
	s.BLE.Close()

	cause := context.Cause(ctx)
	h.log.Info("hub stopped", "reason", cause)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return nil
	}
	return cause
}

func (h *Hub) mainLoop(ctx context.Context, cancel context.CancelCauseFunc) {
	h.log.Debug("started main loop")
	for {
		select {
		case fun := <-h.dispatch:
			start := time.Now()
			if err := fun(h.state); err != nil {
				h.log.Error("error occurred during dispatch", "error", err)
				cancel(err)
				return
			}
			if elapsed := time.Since(start); elapsed > slowDispatch {
				h.log.Warn("dispatch took a long time", "elapsed", elapsed)
			}
		case <-ctx.Done():
			return
		}
	}
}
