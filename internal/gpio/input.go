// internal/gpio/input.go
package gpio

import (
	"errors"
	"fmt"
)

// Input is a sysfs GPIO value file (/sys/class/gpio/gpioN/value).
type Input struct {
	path      string
	activeLow bool
	lastErr   error
}

// NewInput creates an input. activeLow inverts the level.
func NewInput(path string, activeLow bool) (*Input, error) {
	if path == "" {
		return nil, errors.New("gpio: input path required")
	}
	return &Input{path: path, activeLow: activeLow}, nil
}

// Level reads the raw line level.
func (in *Input) Level() (bool, error) {
	v, err := readUint(in.path)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Active reads the level with polarity applied.
// Read errors report inactive; Err returns the last one.
func (in *Input) Active() bool {
	lvl, err := in.Level()
	in.lastErr = err
	if err != nil {
		return false
	}
	return lvl != in.activeLow
}

// Err returns the error of the last Active call.
func (in *Input) Err() error { return in.lastErr }

// Charger adapts an input to the battery monitor.
type Charger struct{ *Input }

// Plugged reports charger presence.
func (c Charger) Plugged() bool { return c.Active() }

// ReadSettings samples the address-selection inputs once.
// paths[0] is bit 0.
func ReadSettings(paths []string) (uint8, error) {
	if len(paths) > 8 {
		return 0, fmt.Errorf("gpio: %d settings inputs exceed one byte", len(paths))
	}
	var v uint8
	for bit, p := range paths {
		in, err := NewInput(p, false)
		if err != nil {
			return 0, err
		}
		lvl, err := in.Level()
		if err != nil {
			return 0, fmt.Errorf("gpio: settings bit %d: %w", bit, err)
		}
		if lvl {
			v |= 1 << uint(bit)
		}
	}
	return v, nil
}
