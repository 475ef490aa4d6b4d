// internal/gpio/gpio_test.go
package gpio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, v string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(v), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestADC_Sample(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in_voltage0_raw")
	writeFile(t, p, "2440\n")

	a, err := NewADC(p)
	if err != nil {
		t.Fatalf("NewADC: %v", err)
	}
	v, err := a.Sample()
	if err != nil || v != 2440 {
		t.Fatalf("Sample: got=%d err=%v", v, err)
	}

	writeFile(t, p, "5000\n")
	if _, err := a.Sample(); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestInput_ActiveLow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "value")
	writeFile(t, p, "0\n")

	in, _ := NewInput(p, true)
	if !in.Active() {
		t.Fatalf("active-low input at 0 must be active")
	}
	if !(Charger{in}).Plugged() {
		t.Fatalf("charger must report plugged")
	}

	writeFile(t, p, "1\n")
	if in.Active() {
		t.Fatalf("active-low input at 1 must be inactive")
	}

	os.Remove(p)
	if in.Active() || in.Err() == nil {
		t.Fatalf("missing file must read inactive with an error")
	}
}

func TestReadSettings(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "cfn0"),
		filepath.Join(dir, "cfn1"),
		filepath.Join(dir, "cfn2"),
	}
	writeFile(t, paths[0], "1")
	writeFile(t, paths[1], "0")
	writeFile(t, paths[2], "1")

	v, err := ReadSettings(paths)
	if err != nil || v != 0x05 {
		t.Fatalf("ReadSettings: got=0x%02X err=%v", v, err)
	}
}

func TestLED_TimerAndOff(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"trigger", "delay_on", "delay_off", "brightness"} {
		writeFile(t, filepath.Join(dir, f), "")
	}

	l, err := NewLED(dir, 750*time.Millisecond, 50)
	if err != nil {
		t.Fatalf("NewLED: %v", err)
	}

	l.SetBlinking(true)
	if l.Err() != nil {
		t.Fatalf("blink: %v", l.Err())
	}
	if got := readFile(t, filepath.Join(dir, "trigger")); got != "timer" {
		t.Fatalf("trigger: got %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "delay_on")); got != "375" {
		t.Fatalf("delay_on: got %q", got)
	}

	l.SetTimer(3*time.Second, 2)
	if got := readFile(t, filepath.Join(dir, "delay_on")); got != "60" {
		t.Fatalf("heartbeat delay_on: got %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "delay_off")); got != "2940" {
		t.Fatalf("heartbeat delay_off: got %q", got)
	}

	l.SetBlinking(false)
	if got := readFile(t, filepath.Join(dir, "trigger")); got != "none" {
		t.Fatalf("trigger after off: got %q", got)
	}
	if l.Blinking() {
		t.Fatalf("LED must report off")
	}
}
