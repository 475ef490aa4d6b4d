// internal/hub/build.go
package hub

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamzrod/scoreboard-hub/internal/battery"
	cfg "github.com/tamzrod/scoreboard-hub/internal/config"
	"github.com/tamzrod/scoreboard-hub/internal/gpio"
	"github.com/tamzrod/scoreboard-hub/internal/transport"
	"github.com/tamzrod/scoreboard-hub/internal/writer"
)

// chargedBlinkPeriod is the fully charged LED pattern.
const chargedBlinkPeriod = 750 * time.Millisecond

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// Build opens the board resources named by c and wires a Hub.
// Assumes config has already passed validation and normalization.
// The returned func releases the resources.
func Build(c *cfg.Config, log *slog.Logger) (*Hub, func() error, error) {
	if log == nil {
		log = slog.Default()
	}
	hc := c.Hub

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*Hub, func() error, error) {
		_ = closeAll()
		return nil, nil, err
	}

	// ---- ports ----

	rs485 := hc.Bus.RS485 != nil && *hc.Bus.RS485
	bus, err := transport.NewSerial(transport.Config{
		Name:     "bus",
		Address:  hc.Bus.Port,
		BaudRate: hc.Bus.BaudRate,
		RS485:    rs485,
	}, log)
	if err != nil {
		return fail(err)
	}

	ble, err := transport.NewSerial(transport.Config{
		Name:     "ble",
		Address:  hc.BLE.Port,
		BaudRate: hc.BLE.BaudRate,
	}, log)
	if err != nil {
		return fail(err)
	}

	dev := Devices{Bus: bus, BLE: ble}

	// ---- battery ----

	adc, err := gpio.NewADC(hc.Battery.ADCPath)
	if err != nil {
		return fail(err)
	}
	dev.ADC = adc

	if hc.Battery.ChargerPath != "" {
		in, err := gpio.NewInput(hc.Battery.ChargerPath, hc.Battery.ChargerActiveLow)
		if err != nil {
			return fail(err)
		}
		dev.Charger = gpio.Charger{Input: in}
	}

	if hc.Battery.IndicatorLED != "" {
		led, err := gpio.NewLED(hc.Battery.IndicatorLED, chargedBlinkPeriod, 50)
		if err != nil {
			return fail(err)
		}
		led.Off()
		closers = append(closers, func() error { led.Off(); return led.Err() })
		dev.ChargedLED = led
	}

	// ---- connection indicator ----

	if hc.HeartbeatLED != "" {
		led, err := gpio.NewLED(hc.HeartbeatLED, heartbeatIdlePeriod, heartbeatIdleDuty)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() error { led.Off(); return led.Err() })
		dev.Heartbeat = led
	}

	if hc.ConnectedPath != "" {
		in, err := gpio.NewInput(hc.ConnectedPath, hc.ConnectedActiveLow)
		if err != nil {
			return fail(err)
		}
		dev.Connection = in
	}

	// ---- settings ----

	var settings uint8
	switch {
	case len(hc.SettingsPaths) > 0:
		settings, err = gpio.ReadSettings(hc.SettingsPaths)
		if err != nil {
			return fail(err)
		}
	case hc.Settings != nil:
		settings = *hc.Settings
	}

	// ---- status mirror (optional) ----

	var mirrorEvery time.Duration
	if m := hc.StatusMirror; m != nil {
		sw, closeMirror, err := writer.Build(*m, hc.Name)
		if err != nil {
			return fail(fmt.Errorf("hub: status mirror: %w", err))
		}
		closers = append(closers, closeMirror)
		dev.Mirror = sw
		mirrorEvery = ms(m.IntervalMs)
	}

	var local uint8
	if hc.Bus.LocalAddress != nil {
		local = *hc.Bus.LocalAddress
	}

	h, err := New(Config{
		Name:          hc.Name,
		LocalAddress:  local,
		Reload:        ms(hc.Bus.ReloadMs),
		Timeout:       ms(hc.Bus.TimeoutMs),
		FaultsAllowed: hc.Bus.FaultsAllowed,
		Battery: battery.Config{
			Window:   hc.Battery.Window,
			Factor:   hc.Battery.Factor,
			Upper:    hc.Battery.Thresholds.Upper,
			Lower:    hc.Battery.Thresholds.Lower,
			Critical: hc.Battery.Thresholds.Critical,
			Charging: hc.Battery.Thresholds.Charging,
		},
		Settings:       settings,
		SampleInterval: ms(hc.Battery.SampleMs),
		StartupDelay:   ms(hc.Gate.StartupDelayMs),
		Recheck:        ms(hc.Gate.RecheckMs),
		MirrorInterval: mirrorEvery,
	}, dev, log)
	if err != nil {
		return fail(err)
	}

	return h, closeAll, nil
}
