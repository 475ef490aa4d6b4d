// internal/writer/types.go
package writer

import "github.com/tamzrod/scoreboard-hub/internal/status"

// Plan is where the hub status block lives on the mirror endpoint.
type Plan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16 // block index; register address = BaseSlot * SlotsPerBlock
	DeviceName string
}

// StatusWriter is the delivery-only contract for hub status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
