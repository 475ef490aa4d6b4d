// internal/datagram/deframer.go
package datagram

// Deframer cuts a byte stream into delimited frames.
// Bytes outside a frame are dropped; a start byte inside a frame restarts it.
// Frames are not validated here; Decode does that.
type Deframer struct {
	buf     []byte
	inFrame bool
	dropped int
}

// Feed consumes b and calls emit for every complete frame.
// The slice passed to emit is owned by the callee.
func (f *Deframer) Feed(b []byte, emit func(frame []byte)) {
	for _, c := range b {
		switch {
		case c == StartByte:
			if f.inFrame && len(f.buf) > 1 {
				f.dropped++
			}
			f.buf = append(f.buf[:0], c)
			f.inFrame = true

		case !f.inFrame:
			// line noise between frames

		case c == EndByte:
			f.buf = append(f.buf, c)
			frame := append([]byte(nil), f.buf...)
			f.buf = f.buf[:0]
			f.inFrame = false
			emit(frame)

		default:
			f.buf = append(f.buf, c)
			if len(f.buf) > MaxFrameSize {
				f.buf = f.buf[:0]
				f.inFrame = false
				f.dropped++
			}
		}
	}
}

// Dropped counts frames abandoned because of a restart or overflow.
func (f *Deframer) Dropped() int { return f.dropped }
