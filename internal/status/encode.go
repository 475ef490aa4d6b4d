// internal/status/encode.go
package status

import "math"

// Encode converts a Snapshot into the live part of a hub status block.
// Name slots are left zero; the writer owns them.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotBitmap] = uint16(s.Bitmap)
	regs[SlotBatteryCentivolts] = s.Centivolts
	regs[SlotSettings] = s.Settings
	regs[SlotEngineState] = s.EngineState
	regs[SlotOfflineNodes] = s.Offline()

	for i := 0; i < len(s.Faults) && i < MaxPresenceBits; i++ {
		regs[SlotFaultStart+i] = s.Faults[i]
	}

	return regs
}

// Centivolts converts a voltage into 10 mV units, clamped to the slot range.
func Centivolts(v float64) uint16 {
	cv := math.Round(v * 100)
	switch {
	case cv <= 0 || math.IsNaN(cv):
		return 0
	case cv >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(cv)
}
