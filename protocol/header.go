// File: protocol/header.go
// Package protocol implements streaming WebSocket frame header parsing.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The parser consumes a byte cursor and is fully resumable: when the
// buffered prefix is too short it reports how many more bytes are needed
// and leaves the buffer untouched, so re-parsing after the next read
// yields the same result as if all bytes had arrived at once.

package protocol

import (
	"encoding/binary"

	"github.com/momentics/wsframe/api"
)

// FrameHeader is the decoded metadata of one frame.
type FrameHeader struct {
	Fin        bool
	Rsv1       bool
	Rsv2       bool
	Rsv3       bool
	Opcode     api.Opcode
	Masked     bool
	PayloadLen uint64
	MaskKey    [4]byte // valid only when Masked
}

// HeaderParser decodes inbound frame headers for one side of a connection.
// role is the local endpoint role: a server-role parser requires inbound
// frames to be masked, a client-role parser requires them unmasked.
type HeaderParser struct {
	role api.Role
}

// NewHeaderParser returns a parser enforcing the masking policy of role.
func NewHeaderParser(role api.Role) *HeaderParser {
	return &HeaderParser{role: role}
}

// Parse decodes one frame header from the front of buf.
//
// Outcomes, mutually exclusive:
//   - need > 0: buf holds an incomplete header; at least need more bytes
//     must arrive before Parse can make progress.
//   - consumed > 0: hdr is valid and the first consumed bytes of buf
//     belong to it.
//   - err != nil: a *api.ProtocolViolation describing a malformed header.
//
// Parse never mutates buf.
func (p *HeaderParser) Parse(buf []byte) (hdr FrameHeader, consumed, need int, err error) {
	if len(buf) < 2 {
		return FrameHeader{}, 0, 2 - len(buf), nil
	}

	b0, b1 := buf[0], buf[1]
	hdr.Fin = b0&FinBit != 0
	hdr.Rsv1 = b0&rsv1Bit != 0
	hdr.Rsv2 = b0&rsv2Bit != 0
	hdr.Rsv3 = b0&rsv3Bit != 0
	hdr.Opcode = api.Opcode(b0 & opcodeMask)
	hdr.Masked = b1&MaskBit != 0

	if b0&rsvMask != 0 {
		return FrameHeader{}, 0, 0, api.Violationf(api.ViolationReservedBitSet,
			"rsv bits 0x%02x set without a negotiated extension", b0&rsvMask)
	}
	if !hdr.Opcode.Known() {
		return FrameHeader{}, 0, 0, api.Violationf(api.ViolationUnknownOpcode,
			"opcode 0x%X is reserved", byte(hdr.Opcode))
	}

	consumed = 2
	switch l := b1 & len7Mask; l {
	case len16Tier:
		if len(buf) < consumed+2 {
			return FrameHeader{}, 0, consumed + 2 - len(buf), nil
		}
		hdr.PayloadLen = uint64(binary.BigEndian.Uint16(buf[consumed:]))
		consumed += 2
	case len64Tier:
		if len(buf) < consumed+8 {
			return FrameHeader{}, 0, consumed + 8 - len(buf), nil
		}
		v := binary.BigEndian.Uint64(buf[consumed:])
		if v&(1<<63) != 0 {
			return FrameHeader{}, 0, 0, api.Violationf(api.ViolationLengthTooLarge,
				"64-bit payload length 0x%016x has the high bit set", v)
		}
		hdr.PayloadLen = v
		consumed += 8
	default:
		hdr.PayloadLen = uint64(l)
	}

	if hdr.Masked {
		if len(buf) < consumed+4 {
			return FrameHeader{}, 0, consumed + 4 - len(buf), nil
		}
		copy(hdr.MaskKey[:], buf[consumed:consumed+4])
		consumed += 4
	}

	if hdr.Opcode.IsControl() {
		if !hdr.Fin {
			return FrameHeader{}, 0, 0, api.Violationf(api.ViolationFragmentedControlFrame,
				"%s frame with fin clear", hdr.Opcode)
		}
		if hdr.PayloadLen > MaxControlPayloadLen {
			return FrameHeader{}, 0, 0, api.Violationf(api.ViolationControlFrameTooLarge,
				"%s frame with %d byte payload", hdr.Opcode, hdr.PayloadLen)
		}
	}

	if err := p.checkMasking(hdr.Masked); err != nil {
		return FrameHeader{}, 0, 0, err
	}

	return hdr, consumed, 0, nil
}

// checkMasking validates masking direction against the peer role:
// client frames must be masked, server frames must not be.
func (p *HeaderParser) checkMasking(masked bool) error {
	switch {
	case p.role == api.RoleServer && !masked:
		return api.Violationf(api.ViolationMaskingPolicy, "client frame arrived unmasked")
	case p.role == api.RoleClient && masked:
		return api.Violationf(api.ViolationMaskingPolicy, "server frame arrived masked")
	}
	return nil
}
