// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
hub:
  name: court-1
  bus:
    port: /dev/ttyS1
    reload_ms: 80
  ble:
    port: /dev/ttyS2
    baud_rate: 9600
  battery:
    adc_path: /tmp/adc
    thresholds:
      critical: 6.5
  settings: 3
  status_mirror:
    endpoint: 127.0.0.1:502
    unit_id: 4
    base_slot: 1
`

func TestLoad_ParseValidateNormalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	Normalize(cfg)

	h := cfg.Hub
	if h.Bus.ReloadMs != 80 || h.Bus.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("bus timing: reload=%d timeout=%d", h.Bus.ReloadMs, h.Bus.TimeoutMs)
	}
	if h.Bus.BaudRate != DefaultBaudRate || h.BLE.BaudRate != 9600 {
		t.Fatalf("baud rates: bus=%d ble=%d", h.Bus.BaudRate, h.BLE.BaudRate)
	}
	if h.Bus.RS485 == nil || !*h.Bus.RS485 {
		t.Fatalf("rs485 should default to enabled")
	}
	if *h.Bus.LocalAddress != DefaultLocalAddress {
		t.Fatalf("local address: got=0x%02X", *h.Bus.LocalAddress)
	}
	if h.Battery.Thresholds.Critical != 6.5 || h.Battery.Thresholds.Upper != DefaultUpper {
		t.Fatalf("thresholds: %+v", h.Battery.Thresholds)
	}
	if *h.Settings != 3 {
		t.Fatalf("settings: got=%d", *h.Settings)
	}
	if h.StatusMirror.DeviceName != "court-1" || h.StatusMirror.IntervalMs != DefaultMirrorIntervalMs {
		t.Fatalf("mirror defaults: %+v", *h.StatusMirror)
	}
	if h.Log.Level != DefaultLogLevel {
		t.Fatalf("log level: got=%q", h.Log.Level)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	if _, err := Parse([]byte("hub:\n  nmae: x\n")); err == nil {
		t.Fatalf("expected unknown field error, got nil")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected empty document error, got nil")
	}
}
