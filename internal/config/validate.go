// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Node addresses the hub must never claim as its own.
const (
	addrBroadcast = 0xFF
	addrService   = 0xFE
)

// maxBaseSlot keeps a 32-register block inside the 16 bit address space.
const maxBaseSlot = 2047

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: missing document")
	}
	h := cfg.Hub

	// ------------------------------------------------------------
	// IDENTITY
	// ------------------------------------------------------------

	if h.Name == "" {
		return fmt.Errorf("hub.name is required")
	}
	if !isASCII(h.Name) {
		return fmt.Errorf("hub.name %q must contain printable ASCII characters only", h.Name)
	}

	// ------------------------------------------------------------
	// LINKS
	// ------------------------------------------------------------

	if h.Bus.Port == "" {
		return fmt.Errorf("hub %q: bus.port is required", h.Name)
	}
	if h.BLE.Port == "" {
		return fmt.Errorf("hub %q: ble.port is required", h.Name)
	}
	if h.Bus.Port == h.BLE.Port {
		return fmt.Errorf("hub %q: bus and ble share port %q", h.Name, h.Bus.Port)
	}
	if h.Bus.BaudRate < 0 || h.BLE.BaudRate < 0 {
		return fmt.Errorf("hub %q: baud_rate must not be negative", h.Name)
	}
	if h.Bus.ReloadMs < 0 || h.Bus.TimeoutMs < 0 {
		return fmt.Errorf("hub %q: bus reload_ms and timeout_ms must not be negative", h.Name)
	}

	reload := orDefault(h.Bus.ReloadMs, DefaultReloadMs)
	timeout := orDefault(h.Bus.TimeoutMs, DefaultTimeoutMs)
	if timeout >= reload {
		return fmt.Errorf(
			"hub %q: bus.timeout_ms (%d) must be shorter than bus.reload_ms (%d)",
			h.Name,
			timeout,
			reload,
		)
	}

	if a := h.Bus.LocalAddress; a != nil && (*a == addrBroadcast || *a == addrService) {
		return fmt.Errorf("hub %q: bus.local_address 0x%02X is reserved", h.Name, *a)
	}
	if h.Bus.FaultsAllowed < 0 || h.Bus.FaultsAllowed > 254 {
		return fmt.Errorf("hub %q: bus.faults_allowed must be in 1..254", h.Name)
	}

	// ------------------------------------------------------------
	// BATTERY
	// ------------------------------------------------------------

	b := h.Battery
	if b.ADCPath == "" {
		return fmt.Errorf("hub %q: battery.adc_path is required", h.Name)
	}
	if b.SampleMs < 0 || b.Window < 0 || b.Factor < 0 {
		return fmt.Errorf("hub %q: battery sample_ms, window and factor must not be negative", h.Name)
	}
	if b.Window > 64 {
		return fmt.Errorf("hub %q: battery.window %d exceeds 64 samples", h.Name, b.Window)
	}

	upper := orDefaultF(b.Thresholds.Upper, DefaultUpper)
	lower := orDefaultF(b.Thresholds.Lower, DefaultLower)
	critical := orDefaultF(b.Thresholds.Critical, DefaultCritical)

	if lower >= upper {
		return fmt.Errorf("hub %q: battery lower threshold %.2f must be below upper %.2f", h.Name, lower, upper)
	}
	if critical >= lower {
		return fmt.Errorf("hub %q: battery critical threshold %.2f must be below lower %.2f", h.Name, critical, lower)
	}

	// ------------------------------------------------------------
	// SETTINGS
	// ------------------------------------------------------------

	if len(h.SettingsPaths) > 0 {
		if h.Settings != nil {
			return fmt.Errorf("hub %q: settings and settings_paths are mutually exclusive", h.Name)
		}
		if len(h.SettingsPaths) != 3 {
			return fmt.Errorf("hub %q: settings_paths needs exactly 3 inputs, got %d", h.Name, len(h.SettingsPaths))
		}
	}
	if h.Settings != nil && *h.Settings > 7 {
		return fmt.Errorf("hub %q: settings %d out of range 0..7", h.Name, *h.Settings)
	}

	// ------------------------------------------------------------
	// GATE
	// ------------------------------------------------------------

	if h.Gate.StartupDelayMs < 0 || h.Gate.RecheckMs < 0 {
		return fmt.Errorf("hub %q: gate delays must not be negative", h.Name)
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if m := h.StatusMirror; m != nil {
		if m.Endpoint == "" {
			return fmt.Errorf("hub %q: status_mirror.endpoint is required", h.Name)
		}
		if m.BaseSlot > maxBaseSlot {
			return fmt.Errorf("hub %q: status_mirror.base_slot %d exceeds %d", h.Name, m.BaseSlot, maxBaseSlot)
		}
		if m.IntervalMs < 0 || m.TimeoutMs < 0 {
			return fmt.Errorf("hub %q: status_mirror interval_ms and timeout_ms must not be negative", h.Name)
		}
		if !isASCII(m.DeviceName) {
			return fmt.Errorf("hub %q: status_mirror.device_name must contain ASCII characters only", h.Name)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(h.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("hub %q: unknown log.level %q", h.Name, h.Log.Level)
	}

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultF(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
