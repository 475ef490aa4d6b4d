// internal/datagram/datagram.go
package datagram

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrUnderflow  = errors.New("datagram: extract past end of payload")
	ErrOversize   = errors.New("datagram: payload exceeds 255 bytes")
	ErrShortFrame = errors.New("datagram: frame too short")
	ErrFraming    = errors.New("datagram: missing frame delimiters")
	ErrLength     = errors.New("datagram: length field mismatch")
	ErrChecksum   = errors.New("datagram: checksum mismatch")
	ErrEscape     = errors.New("datagram: dangling escape byte")
)

// Datagram is one request or response on a link.
// Handlers rewrite it in place to build the reply.
//
// Multi-byte values are little-endian.
type Datagram struct {
	Source      uint8
	Destination uint8
	Command     uint8

	payload []byte
	cursor  int
	crc     uint16
}

// New creates an empty datagram.
func New(src, dst, cmd uint8) *Datagram {
	return &Datagram{Source: src, Destination: dst, Command: cmd}
}

// Flush drops the payload and rewinds the extract cursor.
// Addressing and command are kept.
func (d *Datagram) Flush() {
	d.payload = d.payload[:0]
	d.cursor = 0
}

// SwapAddresses turns a request into its reply addressing.
func (d *Datagram) SwapAddresses() {
	d.Source, d.Destination = d.Destination, d.Source
}

// Length is the payload size in bytes.
func (d *Datagram) Length() int { return len(d.payload) }

// Remaining is the number of bytes not yet extracted.
func (d *Datagram) Remaining() int { return len(d.payload) - d.cursor }

// Payload returns a copy of the payload.
func (d *Datagram) Payload() []byte {
	return append([]byte(nil), d.payload...)
}

// Clone returns an independent copy.
func (d *Datagram) Clone() *Datagram {
	c := *d
	c.payload = d.Payload()
	return &c
}

// ---- append ----

func (d *Datagram) Append(b ...byte) { d.payload = append(d.payload, b...) }

func (d *Datagram) AppendUint16(v uint16) {
	d.payload = binary.LittleEndian.AppendUint16(d.payload, v)
}

func (d *Datagram) AppendUint32(v uint32) {
	d.payload = binary.LittleEndian.AppendUint32(d.payload, v)
}

func (d *Datagram) AppendFloat32(v float32) {
	d.AppendUint32(math.Float32bits(v))
}

// ---- extract ----

func (d *Datagram) Extract() (byte, error) {
	if d.Remaining() < 1 {
		return 0, ErrUnderflow
	}
	b := d.payload[d.cursor]
	d.cursor++
	return b, nil
}

// ExtractBytes copies the next n bytes.
func (d *Datagram) ExtractBytes(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, ErrUnderflow
	}
	out := append([]byte(nil), d.payload[d.cursor:d.cursor+n]...)
	d.cursor += n
	return out, nil
}

func (d *Datagram) ExtractUint16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, ErrUnderflow
	}
	v := binary.LittleEndian.Uint16(d.payload[d.cursor:])
	d.cursor += 2
	return v, nil
}

func (d *Datagram) ExtractUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, ErrUnderflow
	}
	v := binary.LittleEndian.Uint32(d.payload[d.cursor:])
	d.cursor += 4
	return v, nil
}

func (d *Datagram) ExtractFloat32() (float32, error) {
	v, err := d.ExtractUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ---- checksum ----

// UpdateChecksum recomputes the CRC over the current header and payload.
func (d *Datagram) UpdateChecksum() uint16 {
	d.crc = crc16(d.body())
	return d.crc
}

// Checksum returns the CRC from the last update or decode.
func (d *Datagram) Checksum() uint16 { return d.crc }

func (d *Datagram) body() []byte {
	b := make([]byte, 0, HeaderSize+len(d.payload))
	b = append(b, d.Destination, d.Source, d.Command, byte(len(d.payload)))
	return append(b, d.payload...)
}

func crc16(b []byte) uint16 {
	crc := uint16(crcInitial)
	for _, v := range b {
		crc ^= uint16(v) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
