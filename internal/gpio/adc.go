// internal/gpio/adc.go
package gpio

import (
	"errors"
	"fmt"
)

// ADC reads raw samples from an IIO channel, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
type ADC struct {
	path string
	max  uint64
}

// NewADC creates a reader for a 12 bit channel.
func NewADC(path string) (*ADC, error) {
	if path == "" {
		return nil, errors.New("gpio: adc path required")
	}
	return &ADC{path: path, max: 0x0FFF}, nil
}

// Sample returns one raw conversion.
func (a *ADC) Sample() (uint16, error) {
	v, err := readUint(a.path)
	if err != nil {
		return 0, err
	}
	if v > a.max {
		return 0, fmt.Errorf("gpio: adc sample %d exceeds 12 bits", v)
	}
	return uint16(v), nil
}
