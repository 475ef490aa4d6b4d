// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func hub() *Config {
	return &Config{
		Hub: HubConfig{
			Name:    "court-1",
			Bus:     BusConfig{Port: "/dev/ttyS1"},
			BLE:     BLEConfig{Port: "/dev/ttyS2"},
			Battery: BatteryConfig{ADCPath: "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"},
		},
	}
}

func u8(v uint8) *uint8 { return &v }

// ---- tests ----

func TestValidate_MinimalConfigAccepted(t *testing.T) {
	if err := Validate(hub()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NameRequired(t *testing.T) {
	cfg := hub()
	cfg.Hub.Name = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing name error, got nil")
	}
}

func TestValidate_SharedPortRejected(t *testing.T) {
	cfg := hub()
	cfg.Hub.BLE.Port = cfg.Hub.Bus.Port

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected shared port error, got nil")
	}
}

func TestValidate_TimeoutMustBeShorterThanReload(t *testing.T) {
	cfg := hub()
	cfg.Hub.Bus.ReloadMs = 10 // default timeout is 15

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timeout/reload error, got nil")
	}

	cfg.Hub.Bus.TimeoutMs = 5
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReservedLocalAddress(t *testing.T) {
	cfg := hub()
	cfg.Hub.Bus.LocalAddress = u8(0xFF)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected reserved address error, got nil")
	}
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := hub()
	cfg.Hub.Battery.Thresholds.Lower = 8.20 // above default upper

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected threshold ordering error, got nil")
	}

	cfg = hub()
	cfg.Hub.Battery.Thresholds.Critical = 8.06

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected critical threshold error, got nil")
	}
}

func TestValidate_SettingsSources(t *testing.T) {
	cfg := hub()
	cfg.Hub.Settings = u8(2)
	cfg.Hub.SettingsPaths = []string{"a", "b", "c"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected mutually exclusive settings error, got nil")
	}

	cfg = hub()
	cfg.Hub.SettingsPaths = []string{"a", "b"}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected settings_paths count error, got nil")
	}

	cfg = hub()
	cfg.Hub.Settings = u8(8)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected settings range error, got nil")
	}
}

func TestValidate_StatusMirror(t *testing.T) {
	cfg := hub()
	cfg.Hub.StatusMirror = &StatusMirrorConfig{}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing endpoint error, got nil")
	}

	cfg.Hub.StatusMirror.Endpoint = "10.0.0.5:502"
	cfg.Hub.StatusMirror.BaseSlot = 2048
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected base slot range error, got nil")
	}

	cfg.Hub.StatusMirror.BaseSlot = 2047
	cfg.Hub.StatusMirror.DeviceName = "Platzé"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ASCII device name error, got nil")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := hub()
	cfg.Hub.Log.Level = "verbose"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}
