// File: protocol/assembler.go
// Package protocol implements incremental payload assembly.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The assembler consumes payload bytes for the frame most recently parsed
// by HeaderParser, unmasking as bytes arrive and reassembling fragmented
// messages. Control frames dispatch as soon as their payload completes;
// data frames accumulate into at most one in-flight message per
// connection.

package protocol

import (
	"unicode/utf8"

	"github.com/momentics/wsframe/api"
)

// DefaultMaxMessageSize bounds reassembled message size unless overridden.
const DefaultMaxMessageSize = 1 << 20 // 1 MiB

// inFlight accumulates the fragments of one data message.
type inFlight struct {
	opcode api.Opcode // fixed at the first fragment
	buf    []byte
}

// Assembler reassembles frame payloads into application messages.
// Not safe for concurrent use; one logical reader drives it.
type Assembler struct {
	maxMessageSize uint64

	hdr     FrameHeader
	offset  uint64 // payload bytes consumed for the current frame
	active  bool
	scratch []byte // per-frame payload when the frame completes a message

	msg *inFlight
}

// NewAssembler builds an assembler with the given message size bound.
// Zero selects DefaultMaxMessageSize.
func NewAssembler(maxMessageSize uint64) *Assembler {
	if maxMessageSize == 0 {
		maxMessageSize = DefaultMaxMessageSize
	}
	return &Assembler{maxMessageSize: maxMessageSize}
}

// Begin registers hdr as the current frame and validates its place in the
// fragmentation sequence. Must be called exactly once per parsed header,
// before any Push for that frame.
func (a *Assembler) Begin(hdr FrameHeader) error {
	switch {
	case hdr.Opcode == api.OpcodeText || hdr.Opcode == api.OpcodeBinary:
		if a.msg != nil {
			return api.Violationf(api.ViolationUnexpectedDataFrame,
				"%s frame while a fragmented message is in flight", hdr.Opcode)
		}
		if hdr.PayloadLen > a.maxMessageSize {
			a.discard()
			return a.tooBig(hdr.PayloadLen)
		}
		if !hdr.Fin {
			a.msg = &inFlight{opcode: hdr.Opcode}
		}
	case hdr.Opcode == api.OpcodeContinuation:
		if a.msg == nil {
			return api.Violationf(api.ViolationUnexpectedContinuation,
				"continuation frame without a message in flight")
		}
		if total := uint64(len(a.msg.buf)) + hdr.PayloadLen; total > a.maxMessageSize {
			a.discard()
			return a.tooBig(total)
		}
	}
	a.hdr = hdr
	a.offset = 0
	a.active = true
	a.scratch = a.scratch[:0]
	return nil
}

// Push consumes up to Remaining() payload bytes of the current frame from
// p, unmasking them in place. It returns the events completed by this
// chunk and the number of bytes consumed from p. Masked chunks are
// modified in place; the caller is expected to discard consumed bytes.
func (a *Assembler) Push(p []byte) ([]api.FrameEvent, int, error) {
	if !a.active {
		return nil, 0, api.ErrInvalidArgument
	}

	take := a.hdr.PayloadLen - a.offset
	if take > uint64(len(p)) {
		take = uint64(len(p))
	}
	chunk := p[:take]

	if a.hdr.Masked {
		MaskBytes(chunk, a.hdr.MaskKey, a.offset)
	}

	switch {
	case a.hdr.Opcode.IsControl():
		a.scratch = append(a.scratch, chunk...)
	case a.hdr.Opcode == api.OpcodeContinuation || !a.hdr.Fin:
		// Fragment of the in-flight message.
		if total := uint64(len(a.msg.buf)) + uint64(len(chunk)); total > a.maxMessageSize {
			a.discard()
			return nil, int(take), a.tooBig(total)
		}
		a.msg.buf = append(a.msg.buf, chunk...)
	default:
		// Unfragmented data frame.
		if total := uint64(len(a.scratch)) + uint64(len(chunk)); total > a.maxMessageSize {
			a.discard()
			return nil, int(take), a.tooBig(total)
		}
		a.scratch = append(a.scratch, chunk...)
	}

	a.offset += take
	if a.offset < a.hdr.PayloadLen {
		return nil, int(take), nil
	}

	evs, err := a.finalize()
	return evs, int(take), err
}

// Remaining returns the payload bytes still owed to the current frame.
func (a *Assembler) Remaining() uint64 {
	if !a.active {
		return 0
	}
	return a.hdr.PayloadLen - a.offset
}

// FrameDone reports whether the current frame has been fully consumed.
func (a *Assembler) FrameDone() bool {
	return !a.active
}

// InFlight reports whether a fragmented message is being accumulated.
func (a *Assembler) InFlight() bool {
	return a.msg != nil
}

// Reset discards the current frame and any in-flight message without
// emitting them. Used on connection teardown.
func (a *Assembler) Reset() {
	a.discard()
}

// finalize dispatches the completed frame into events.
func (a *Assembler) finalize() ([]api.FrameEvent, error) {
	hdr := a.hdr
	a.active = false

	switch hdr.Opcode {
	case api.OpcodePing:
		return []api.FrameEvent{api.PingEvent{Payload: cloned(a.scratch)}}, nil

	case api.OpcodePong:
		return []api.FrameEvent{api.PongEvent{Payload: cloned(a.scratch)}}, nil

	case api.OpcodeClose:
		code, reason, err := ParseClosePayload(a.scratch)
		if err != nil {
			return nil, err
		}
		return []api.FrameEvent{api.CloseEvent{Code: code, Reason: reason}}, nil

	case api.OpcodeContinuation:
		if !hdr.Fin {
			return nil, nil
		}
		msg := a.msg
		a.msg = nil
		if msg.opcode == api.OpcodeText && !utf8.Valid(msg.buf) {
			// Validation runs on the whole reassembled buffer; multi-byte
			// sequences may straddle fragment boundaries.
			return nil, api.Violationf(api.ViolationInvalidUTF8,
				"reassembled text message is not valid UTF-8")
		}
		return []api.FrameEvent{api.MessageEvent{Kind: msg.opcode, Payload: msg.buf}}, nil

	default: // Text or Binary
		if !hdr.Fin {
			// First fragment; message stays in flight.
			return nil, nil
		}
		if hdr.Opcode == api.OpcodeText && !utf8.Valid(a.scratch) {
			return nil, api.Violationf(api.ViolationInvalidUTF8,
				"text message is not valid UTF-8")
		}
		return []api.FrameEvent{api.MessageEvent{Kind: hdr.Opcode, Payload: cloned(a.scratch)}}, nil
	}
}

func (a *Assembler) tooBig(n uint64) error {
	return api.Violationf(api.ViolationMessageTooBig,
		"message of %d bytes exceeds the %d byte limit", n, a.maxMessageSize)
}

// discard drops the current frame and the partial message buffer.
func (a *Assembler) discard() {
	a.active = false
	a.msg = nil
	a.scratch = a.scratch[:0]
}

// cloned copies b into a fresh slice; scratch is reused across frames and
// must not escape to the application.
func cloned(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
