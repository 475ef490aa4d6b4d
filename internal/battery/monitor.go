// internal/battery/monitor.go
package battery

import (
	"log/slog"

	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// Config holds the conversion and hysteresis constants.
//
// ADC: 12 bit, Vref 3.3 V (805 uV/LSB) behind a 22k/90k divider, which
// gives 0.00332 V per LSB and a 9 V full scale.
type Config struct {
	Window int
	Factor float64

	// Upper re-arms the fully charged flag, Lower drops it.
	// The gap between them keeps the flag from flapping.
	Upper float64
	Lower float64

	// Critical sets the battery low flag.
	Critical float64

	// Charging is only used when no charger input is wired:
	// a voltage above it means a charger is feeding the pack.
	Charging float64
}

// DefaultConfig returns the reference board constants.
func DefaultConfig() Config {
	return Config{
		Window:   5,
		Factor:   0.00332,
		Upper:    8.10,
		Lower:    8.05,
		Critical: 6.70,
		Charging: 8.30,
	}
}

// Flags is the part of the status aggregator the monitor drives.
type Flags interface {
	Has(flag status.Bitmap) bool
	SetChargeFlags(charging, charged, low bool)
}

// ChargerSense reports the charger presence input.
type ChargerSense interface {
	Plugged() bool
}

// Indicator is the fully charged LED.
type Indicator interface {
	SetBlinking(on bool)
}

// Monitor converts ADC samples into the three battery flags.
type Monitor struct {
	cfg     Config
	filter  *Filter
	flags   Flags
	charger ChargerSense
	led     Indicator
	log     *slog.Logger

	voltage float64
	samples uint64
}

// New creates a monitor. charger and led may be nil.
func New(cfg Config, flags Flags, charger ChargerSense, led Indicator, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		cfg:     cfg,
		filter:  NewFilter(cfg.Window),
		flags:   flags,
		charger: charger,
		led:     led,
		log:     log,
	}
}

// OnSample folds one raw ADC reading into the status flags.
func (m *Monitor) OnSample(raw uint16) {
	v := m.cfg.Factor * m.filter.Push(raw)
	m.voltage = v
	m.samples++

	wasLow := m.flags.Has(status.FlagBatteryLow)
	charging := m.flags.Has(status.FlagCharging)
	charged := m.flags.Has(status.FlagCharged)
	low := false

	if v > m.cfg.Upper {
		if charging {
			charged = true
		}
	} else if v < m.cfg.Lower {
		charged = false
		if v < m.cfg.Critical {
			low = true
		}
	}

	if m.charger != nil {
		charging = m.charger.Plugged()
	} else {
		charging = v > m.cfg.Charging
	}

	m.flags.SetChargeFlags(charging, charged, low)

	if m.led != nil {
		m.led.SetBlinking(charged)
	}

	if low != wasLow {
		m.log.Info("battery low changed", "low", low, "voltage", v)
	}
}

// Voltage returns the last filtered voltage.
func (m *Monitor) Voltage() float64 { return m.voltage }

// Samples returns how many samples have been processed.
func (m *Monitor) Samples() uint64 { return m.samples }
