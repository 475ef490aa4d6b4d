// internal/gpio/led.go
package gpio

import (
	"errors"
	"path/filepath"
	"strconv"
	"time"
)

// LED drives a /sys/class/leds/<name> device through its timer trigger.
// Writes are skipped when the requested pattern is already active.
type LED struct {
	dir      string
	interval time.Duration
	duty     int

	on      bool
	curOn   time.Duration
	curOff  time.Duration
	written bool
	lastErr error
}

// NewLED creates an LED that blinks with the given period and duty (%).
func NewLED(dir string, interval time.Duration, duty int) (*LED, error) {
	if dir == "" {
		return nil, errors.New("gpio: led directory required")
	}
	return &LED{dir: dir, interval: interval, duty: clampDuty(duty)}, nil
}

func clampDuty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 99 {
		return 99
	}
	return d
}

// SetBlinking switches between the configured blink pattern and off.
func (l *LED) SetBlinking(on bool) {
	if on {
		l.SetTimer(l.interval, l.duty)
		return
	}
	l.Off()
}

// SetTimer blinks with a new period and duty (%).
func (l *LED) SetTimer(interval time.Duration, duty int) {
	duty = clampDuty(duty)
	onT := interval * time.Duration(duty) / 100
	offT := interval - onT

	if l.written && l.on && l.curOn == onT && l.curOff == offT {
		return
	}
	l.lastErr = l.apply(
		"timer",
		[2]string{"delay_on", strconv.FormatInt(onT.Milliseconds(), 10)},
		[2]string{"delay_off", strconv.FormatInt(offT.Milliseconds(), 10)},
	)
	l.on, l.curOn, l.curOff, l.written = true, onT, offT, l.lastErr == nil
}

// Off stops blinking and turns the LED off.
func (l *LED) Off() {
	if l.written && !l.on {
		return
	}
	l.lastErr = l.apply("none", [2]string{"brightness", "0"})
	l.on, l.written = false, l.lastErr == nil
}

// Blinking reports the last requested state.
func (l *LED) Blinking() bool { return l.on }

// Err returns the error of the last write.
func (l *LED) Err() error { return l.lastErr }

func (l *LED) apply(trigger string, attrs ...[2]string) error {
	if err := writeString(filepath.Join(l.dir, "trigger"), trigger); err != nil {
		return err
	}
	// the timer trigger creates delay_on/delay_off only after it is selected
	for _, a := range attrs {
		if err := writeString(filepath.Join(l.dir, a[0]), a[1]); err != nil {
			return err
		}
	}
	return nil
}
