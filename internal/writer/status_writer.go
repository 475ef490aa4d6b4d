// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/scoreboard-hub/internal/status"
)

// mirrorWriter mirrors the hub status block into holding registers.
type mirrorWriter struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// NewStatusWriter builds the mirror writer for plan.
func NewStatusWriter(plan Plan, cli endpointClient) (*mirrorWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if (uint32(plan.BaseSlot)+1)*status.SlotsPerBlock > 0x10000 {
		return nil, fmt.Errorf("status writer: base slot %d out of register range", plan.BaseSlot)
	}

	return &mirrorWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: encodeDeviceNameRegs(plan.DeviceName),
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// The first write, and the first write after any failure, re-asserts the
// full block. Otherwise only changed register runs are written.
func (sw *mirrorWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}

	regs := sw.blockRegs(s)
	base := sw.baseAddr()

	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = regs
		return nil
	}

	var errs []string

	for i := 0; i < len(regs); {
		if regs[i] == sw.last[i] {
			i++
			continue
		}
		j := i
		for j < len(regs) && regs[j] != sw.last[j] {
			j++
		}

		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base+uint16(i), regs[i:j]); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", i, j-1, err))
		} else {
			copy(sw.last[i:j], regs[i:j])
		}
		i = j
	}

	if len(errs) > 0 {
		// Any partial failure forces a full re-assert on the next write.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *mirrorWriter) baseAddr() uint16 {
	return sw.plan.BaseSlot * status.SlotsPerBlock
}

func (sw *mirrorWriter) blockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Hub name always lives at the end of the block
	for i := 0; i < status.SlotDeviceNameSlots && i < len(sw.nameRegs); i++ {
		regs[status.SlotDeviceNameStart+i] = sw.nameRegs[i]
	}

	return regs
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, status.SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > status.DeviceNameMaxChars {
		b = b[:status.DeviceNameMaxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < status.DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
