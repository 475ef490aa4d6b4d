// internal/score/params.go
package score

// Size is the fixed length of the scoreboard content buffer.
const Size = 14

// Field offsets inside the buffer.
const (
	Player1Tens = iota
	Player1Units
	Player1Set1
	Player1Set2
	Player1Set3
	Player2Tens
	Player2Units
	Player2Set1
	Player2Set2
	Player2Set3
	Flags
	Seconds
	Minutes
	Hours
)

// Flags byte bits.
const (
	FlagServePlayer1 byte = 0x01
	FlagServePlayer2 byte = 0x02
	FlagServeMask    byte = 0x03
	FlagConnected    byte = 0x40
	FlagCalibrating  byte = 0x80
)

// Blank is the digit code that turns a display segment off.
const Blank byte = 0x10

// Params is the latest scoreboard content and its pending-push marker.
type Params struct {
	buf   [Size]byte
	dirty bool
}

// New returns a buffer with every field blank.
func New() *Params {
	p := &Params{}
	for i := range p.buf {
		p.buf[i] = Blank
	}
	return p
}

// Set replaces the content and marks it dirty.
// connected is OR-ed into the flags byte.
// It returns false when b is shorter than Size.
func (p *Params) Set(b []byte, connected byte) bool {
	if len(b) < Size {
		return false
	}
	copy(p.buf[:], b[:Size])
	p.buf[Flags] |= connected
	p.dirty = true
	return true
}

// Bytes returns a copy of the buffer.
func (p *Params) Bytes() [Size]byte { return p.buf }

// Field returns one byte of the buffer.
func (p *Params) Field(i int) byte {
	if i < 0 || i >= Size {
		return 0
	}
	return p.buf[i]
}

// Dirty reports whether new content is waiting to be broadcast.
func (p *Params) Dirty() bool { return p.dirty }

// MarkDirty forces the next reload tick to broadcast.
func (p *Params) MarkDirty() { p.dirty = true }

// TakeDirty clears the dirty flag and reports whether it was set.
func (p *Params) TakeDirty() bool {
	d := p.dirty
	p.dirty = false
	return d
}
