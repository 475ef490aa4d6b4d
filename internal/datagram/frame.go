// internal/datagram/frame.go
package datagram

import "encoding/binary"

// Frame layout:
//
//	0x7E | dst src cmd len payload... crcLo crcHi | 0x7F
//
// Everything between the delimiters is byte-stuffed with 0x7D and
// xor 0x20. The CRC covers dst..payload before stuffing.

// MarshalBinary refreshes the checksum and encodes a complete frame.
func (d *Datagram) MarshalBinary() ([]byte, error) {
	if len(d.payload) > MaxPayloadSize {
		return nil, ErrOversize
	}

	raw := d.body()
	raw = binary.LittleEndian.AppendUint16(raw, d.UpdateChecksum())

	out := make([]byte, 0, len(raw)+len(raw)/4+2)
	out = append(out, StartByte)
	for _, b := range raw {
		switch b {
		case StartByte, EndByte, EscByte:
			out = append(out, EscByte, b^EscXor)
		default:
			out = append(out, b)
		}
	}
	return append(out, EndByte), nil
}

// UnmarshalBinary decodes one complete frame into d.
func (d *Datagram) UnmarshalBinary(frame []byte) error {
	if len(frame) < 2 || frame[0] != StartByte || frame[len(frame)-1] != EndByte {
		return ErrFraming
	}

	raw := make([]byte, 0, len(frame)-2)
	esc := false
	for _, b := range frame[1 : len(frame)-1] {
		switch {
		case esc:
			raw = append(raw, b^EscXor)
			esc = false
		case b == EscByte:
			esc = true
		default:
			raw = append(raw, b)
		}
	}
	if esc {
		return ErrEscape
	}

	if len(raw) < HeaderSize+CRCSize {
		return ErrShortFrame
	}

	n := int(raw[3])
	if len(raw) != HeaderSize+n+CRCSize {
		return ErrLength
	}

	body := raw[:HeaderSize+n]
	want := binary.LittleEndian.Uint16(raw[HeaderSize+n:])
	if crc16(body) != want {
		return ErrChecksum
	}

	d.Destination = raw[0]
	d.Source = raw[1]
	d.Command = raw[2]
	d.payload = append(d.payload[:0], body[HeaderSize:]...)
	d.cursor = 0
	d.crc = want
	return nil
}

// Decode parses one frame into a new datagram.
func Decode(frame []byte) (*Datagram, error) {
	d := &Datagram{}
	if err := d.UnmarshalBinary(frame); err != nil {
		return nil, err
	}
	return d, nil
}
