// internal/status/snapshot.go
package status

// Snapshot is a copy of the hub status taken on the dispatch loop.
// It is handed to the mirror writer and carries no behaviour.
type Snapshot struct {
	Bitmap      Bitmap
	Centivolts  uint16
	Settings    uint16
	EngineState uint16

	// Faults holds one consecutive-failure counter per node index.
	Faults []uint16
}

// Offline counts nodes whose presence bit is clear.
func (s Snapshot) Offline() uint16 {
	var n uint16
	for i := range s.Faults {
		if !s.Bitmap.Present(i) {
			n++
		}
	}
	return n
}
