// internal/config/normalize.go
package config

// Reference board defaults.
const (
	DefaultBaudRate      = 115200
	DefaultReloadMs      = 100
	DefaultTimeoutMs     = 15
	DefaultLocalAddress  = 0x20
	DefaultFaultsAllowed = 10

	DefaultSampleMs = 250
	DefaultWindow   = 5
	DefaultFactor   = 0.00332
	DefaultUpper    = 8.10
	DefaultLower    = 8.05
	DefaultCritical = 6.70
	DefaultCharging = 8.30

	DefaultStartupDelayMs = 5000
	DefaultRecheckMs      = 1000

	DefaultMirrorIntervalMs = 1000
	DefaultMirrorTimeoutMs  = 2000

	DefaultLogLevel = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	h := &cfg.Hub

	// ---- bus ----
	if h.Bus.BaudRate == 0 {
		h.Bus.BaudRate = DefaultBaudRate
	}
	if h.Bus.RS485 == nil {
		on := true
		h.Bus.RS485 = &on
	}
	if h.Bus.ReloadMs == 0 {
		h.Bus.ReloadMs = DefaultReloadMs
	}
	if h.Bus.TimeoutMs == 0 {
		h.Bus.TimeoutMs = DefaultTimeoutMs
	}
	if h.Bus.LocalAddress == nil {
		a := uint8(DefaultLocalAddress)
		h.Bus.LocalAddress = &a
	}
	if h.Bus.FaultsAllowed == 0 {
		h.Bus.FaultsAllowed = DefaultFaultsAllowed
	}

	// ---- ble ----
	if h.BLE.BaudRate == 0 {
		h.BLE.BaudRate = DefaultBaudRate
	}

	// ---- battery ----
	b := &h.Battery
	if b.SampleMs == 0 {
		b.SampleMs = DefaultSampleMs
	}
	if b.Window == 0 {
		b.Window = DefaultWindow
	}
	if b.Factor == 0 {
		b.Factor = DefaultFactor
	}
	if b.Thresholds.Upper == 0 {
		b.Thresholds.Upper = DefaultUpper
	}
	if b.Thresholds.Lower == 0 {
		b.Thresholds.Lower = DefaultLower
	}
	if b.Thresholds.Critical == 0 {
		b.Thresholds.Critical = DefaultCritical
	}
	if b.Thresholds.Charging == 0 {
		b.Thresholds.Charging = DefaultCharging
	}

	// ---- gate ----
	if h.Gate.StartupDelayMs == 0 {
		h.Gate.StartupDelayMs = DefaultStartupDelayMs
	}
	if h.Gate.RecheckMs == 0 {
		h.Gate.RecheckMs = DefaultRecheckMs
	}

	// ---- status mirror (opt-in) ----
	if m := h.StatusMirror; m != nil {
		if m.IntervalMs == 0 {
			m.IntervalMs = DefaultMirrorIntervalMs
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = DefaultMirrorTimeoutMs
		}
		if m.DeviceName == "" {
			m.DeviceName = h.Name
		}
		// ASCII already validated; truncate to max 16 characters
		if len(m.DeviceName) > 16 {
			m.DeviceName = m.DeviceName[:16]
		}
	}

	// ---- log ----
	if h.Log.Level == "" {
		h.Log.Level = DefaultLogLevel
	}
}
