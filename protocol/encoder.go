// File: protocol/encoder.go
// Package protocol implements outbound frame serialization.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The encoder picks the minimal length tier for every frame and applies
// the masking policy of the endpoint role: client frames carry a fresh
// key from the configured randomness source, server frames go unmasked.

package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/momentics/wsframe/api"
)

// CryptoRandSource derives mask keys from crypto/rand.
// The zero value is ready to use.
type CryptoRandSource struct{}

// MaskKey implements api.RandSource.
func (CryptoRandSource) MaskKey() [4]byte {
	var k [4]byte
	if _, err := rand.Read(k[:]); err != nil {
		panic(fmt.Sprintf("mask key entropy unavailable: %v", err))
	}
	return k
}

// Encoder serializes application messages and control events into wire
// frames for one endpoint role. Safe for concurrent use as long as the
// randomness source is.
type Encoder struct {
	role         api.Role
	randSource   api.RandSource
	maxFrameSize int // 0 disables outbound fragmentation
}

// NewEncoder builds an encoder for role. A nil randomness source falls
// back to CryptoRandSource. maxFrameSize > 0 splits data messages into
// frames of at most that many payload bytes; zero emits a single frame,
// the safe default.
func NewEncoder(role api.Role, rs api.RandSource, maxFrameSize int) *Encoder {
	if rs == nil {
		rs = CryptoRandSource{}
	}
	return &Encoder{role: role, randSource: rs, maxFrameSize: maxFrameSize}
}

// EncodeMessage serializes payload as a data message of the given kind.
// With fragmentation enabled the payload splits into a data frame followed
// by continuation frames, only the last carrying fin. The input payload is
// never mutated; masking happens in the output buffers.
func (e *Encoder) EncodeMessage(kind api.Opcode, payload []byte) ([][]byte, error) {
	if kind != api.OpcodeText && kind != api.OpcodeBinary {
		return nil, fmt.Errorf("%w: opcode %s is not a data kind", api.ErrInvalidArgument, kind)
	}

	chunk := e.maxFrameSize
	if chunk <= 0 || chunk >= len(payload) {
		return [][]byte{e.encodeFrame(true, kind, payload)}, nil
	}

	frames := make([][]byte, 0, (len(payload)+chunk-1)/chunk)
	op := kind
	for off := 0; off < len(payload); off += chunk {
		end := off + chunk
		fin := false
		if end >= len(payload) {
			end = len(payload)
			fin = true
		}
		frames = append(frames, e.encodeFrame(fin, op, payload[off:end]))
		op = api.OpcodeContinuation
	}
	return frames, nil
}

// EncodeControl serializes one unfragmented control frame. Payloads over
// the 125-byte control budget are rejected, never split.
func (e *Encoder) EncodeControl(kind api.Opcode, payload []byte) ([]byte, error) {
	if !kind.IsControl() {
		return nil, fmt.Errorf("%w: opcode %s is not a control kind", api.ErrInvalidArgument, kind)
	}
	if len(payload) > MaxControlPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", api.ErrControlTooLong, len(payload))
	}
	return e.encodeFrame(true, kind, payload), nil
}

// EncodeClose serializes a Close frame carrying code and reason. Reasons
// longer than MaxCloseReasonLen are rejected so the frame stays within the
// control budget.
func (e *Encoder) EncodeClose(code api.CloseCode, reason string) ([]byte, error) {
	if !code.IsValid() {
		return nil, fmt.Errorf("%w: %d", api.ErrInvalidCloseCode, uint16(code))
	}
	if len(reason) > MaxCloseReasonLen {
		return nil, fmt.Errorf("%w: %d bytes", api.ErrReasonTooLong, len(reason))
	}
	payload := AppendClosePayload(make([]byte, 0, 2+len(reason)), code, reason)
	return e.encodeFrame(true, api.OpcodeClose, payload), nil
}

// encodeFrame serializes one frame. The length tier is the minimal one
// that fits the payload.
func (e *Encoder) encodeFrame(fin bool, kind api.Opcode, payload []byte) []byte {
	masked := e.role == api.RoleClient
	buf := make([]byte, 0, MaxFrameHeaderLen+len(payload))

	b0 := byte(kind) & opcodeMask
	if fin {
		b0 |= FinBit
	}
	buf = append(buf, b0)

	var mb byte
	if masked {
		mb = MaskBit
	}
	switch plen := len(payload); {
	case plen <= 125:
		buf = append(buf, byte(plen)|mb)
	case plen <= 0xFFFF:
		var ext [2]byte
		binary.BigEndian.PutUint16(ext[:], uint16(plen))
		buf = append(buf, len16Tier|mb)
		buf = append(buf, ext[:]...)
	default:
		var ext [8]byte
		binary.BigEndian.PutUint64(ext[:], uint64(plen))
		buf = append(buf, len64Tier|mb)
		buf = append(buf, ext[:]...)
	}

	if !masked {
		return append(buf, payload...)
	}

	key := e.randSource.MaskKey()
	buf = append(buf, key[:]...)
	start := len(buf)
	buf = append(buf, payload...)
	MaskBytes(buf[start:], key, 0)
	return buf
}
