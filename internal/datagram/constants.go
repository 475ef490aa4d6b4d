// internal/datagram/constants.go
package datagram

// Framing bytes. Anything equal to one of them inside a frame is escaped.
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Size limits.
const (
	HeaderSize     = 4 // dst, src, cmd, len
	CRCSize        = 2
	MaxPayloadSize = 255

	// MaxFrameSize bounds an escaped frame (every byte escaped plus delimiters).
	MaxFrameSize = 2*(HeaderSize+MaxPayloadSize+CRCSize) + 2
)

// CRC-16/CCITT-FALSE.
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Bus and wireless addresses.
const (
	AddrBroadcast uint8 = 0xFF
	AddrService   uint8 = 0xFE
	AddrHub       uint8 = 0x20
)

// Command identifiers.
const (
	CmdVersion   uint8 = 0x01
	CmdGetStatus uint8 = 0x10
	CmdSetData   uint8 = 0x11
)
