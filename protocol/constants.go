// File: protocol/constants.go
// Author: momentics <momentics@gmail.com>
//
// WebSocket wire protocol constants (RFC 6455 base framing).

package protocol

const (
	// Byte 0 layout: FIN(1) RSV1-3(3) OPCODE(4).
	FinBit     = 0x80
	rsv1Bit    = 0x40
	rsv2Bit    = 0x20
	rsv3Bit    = 0x10
	rsvMask    = rsv1Bit | rsv2Bit | rsv3Bit
	opcodeMask = 0x0F

	// Byte 1 layout: MASK(1) LEN7(7).
	MaskBit  = 0x80
	len7Mask = 0x7F

	// LEN7 sentinel values selecting the extended length tiers.
	len16Tier = 126
	len64Tier = 127

	// Frame limit settings.
	MaxControlPayloadLen = 125
	MaxCloseReasonLen    = 123 // control budget minus the 2-byte status code
	MaxFrameHeaderLen    = 14  // 2 + 8 extended length + 4 mask key
)
