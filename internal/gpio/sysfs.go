// internal/gpio/sysfs.go
package gpio

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func readUint(path string) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("gpio: parse %s: %w", path, err)
	}
	return v, nil
}

func writeString(path, v string) error {
	// sysfs attributes exist already; never create them
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
