// internal/datagram/datagram_test.go
package datagram

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCRC16_CheckValue(t *testing.T) {
	if got := crc16([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("crc16 check value: got=0x%04X want=0x29B1", got)
	}
}

func TestRoundTrip_ScoreBroadcast(t *testing.T) {
	params := []byte{
		0x01, 0x05, 0x06, 0x04, 0x10,
		0x03, 0x00, 0x02, 0x06, 0x10,
		0x41, 0x3B, 0x7E, 0x7D, // clock fields collide with framing bytes
	}

	out := New(AddrHub, AddrBroadcast, CmdSetData)
	out.Append(params...)

	frame, err := out.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	in, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, err := in.ExtractBytes(len(params))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff(params, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if in.Destination != AddrBroadcast || in.Source != AddrHub || in.Command != CmdSetData {
		t.Fatalf("header mismatch: dst=0x%02X src=0x%02X cmd=0x%02X", in.Destination, in.Source, in.Command)
	}
	if in.Checksum() != out.Checksum() {
		t.Fatalf("checksum: got=0x%04X want=0x%04X", in.Checksum(), out.Checksum())
	}
}

func TestMarshal_EscapesDelimiters(t *testing.T) {
	d := New(AddrHub, 0x01, CmdGetStatus)
	d.Append(StartByte, EndByte, EscByte)

	frame, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for i, b := range frame[1 : len(frame)-1] {
		if b == StartByte || b == EndByte {
			t.Fatalf("unescaped delimiter at %d in %X", i+1, frame)
		}
	}
}

func TestAppendExtract_LittleEndianValues(t *testing.T) {
	d := New(AddrHub, AddrService, CmdGetStatus)
	d.AppendUint16(0x83FF)
	d.AppendFloat32(8.25)
	d.Append(0x05)

	if diff := cmp.Diff([]byte{0xFF, 0x83}, d.Payload()[:2]); diff != "" {
		t.Fatalf("uint16 byte order (-want +got):\n%s", diff)
	}

	bm, _ := d.ExtractUint16()
	v, _ := d.ExtractFloat32()
	s, _ := d.Extract()
	if bm != 0x83FF || v != 8.25 || s != 5 {
		t.Fatalf("extract: bitmap=0x%04X voltage=%v settings=%d", bm, v, s)
	}

	if _, err := d.Extract(); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
}

func TestFlush_KeepsAddressing(t *testing.T) {
	d := New(0x01, 0x02, CmdVersion)
	d.Append(1, 2, 3)
	d.Extract()

	d.Flush()
	if d.Length() != 0 || d.Remaining() != 0 {
		t.Fatalf("flush left payload: len=%d remaining=%d", d.Length(), d.Remaining())
	}
	if d.Source != 0x01 || d.Destination != 0x02 || d.Command != CmdVersion {
		t.Fatalf("flush changed header")
	}

	d.SwapAddresses()
	if d.Source != 0x02 || d.Destination != 0x01 {
		t.Fatalf("swap failed: src=0x%02X dst=0x%02X", d.Source, d.Destination)
	}
}

func TestDecode_Errors(t *testing.T) {
	d := New(AddrHub, 0x03, CmdGetStatus)
	d.AppendUint16(0x0001)
	good, _ := d.MarshalBinary()

	corrupt := append([]byte(nil), good...)
	corrupt[5] ^= 0x01 // first payload byte

	shortLen := append([]byte(nil), good...)
	shortLen[4] = 0x01 // length field

	cases := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"no delimiters", good[1 : len(good)-1], ErrFraming},
		{"too short", []byte{StartByte, 1, 2, EndByte}, ErrShortFrame},
		{"checksum", corrupt, ErrChecksum},
		{"length", shortLen, ErrLength},
		{"escape", []byte{StartByte, 1, 2, 3, 4, 5, EscByte, EndByte}, ErrEscape},
	}

	for _, tc := range cases {
		if _, err := Decode(tc.frame); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestMarshal_Oversize(t *testing.T) {
	d := New(AddrHub, AddrBroadcast, CmdSetData)
	d.Append(make([]byte, MaxPayloadSize+1)...)
	if _, err := d.MarshalBinary(); !errors.Is(err, ErrOversize) {
		t.Fatalf("expected ErrOversize, got %v", err)
	}
}
