// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Protocol violation taxonomy and common error values for wsframe.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrTransportClosed  = fmt.Errorf("transport is closed")
	ErrConnectionClosed = fmt.Errorf("connection is closed")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrControlTooLong   = fmt.Errorf("control frame payload exceeds 125 bytes")
	ErrReasonTooLong    = fmt.Errorf("close reason exceeds 123 bytes")
	ErrInvalidCloseCode = fmt.Errorf("close code not sendable on the wire")
)

// ViolationKind identifies one class of peer protocol violation.
// The set is closed: dispatch sites switch over every kind.
type ViolationKind int

const (
	ViolationReservedBitSet ViolationKind = iota
	ViolationUnknownOpcode
	ViolationFragmentedControlFrame
	ViolationControlFrameTooLarge
	ViolationLengthTooLarge
	ViolationMaskingPolicy
	ViolationUnexpectedDataFrame
	ViolationUnexpectedContinuation
	ViolationInvalidUTF8
	ViolationMessageTooBig
	ViolationMalformedClosePayload
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationReservedBitSet:
		return "reserved bit set"
	case ViolationUnknownOpcode:
		return "unknown opcode"
	case ViolationFragmentedControlFrame:
		return "fragmented control frame"
	case ViolationControlFrameTooLarge:
		return "control frame too large"
	case ViolationLengthTooLarge:
		return "length too large"
	case ViolationMaskingPolicy:
		return "masking policy violation"
	case ViolationUnexpectedDataFrame:
		return "unexpected data frame"
	case ViolationUnexpectedContinuation:
		return "unexpected continuation"
	case ViolationInvalidUTF8:
		return "invalid utf-8"
	case ViolationMessageTooBig:
		return "message too big"
	case ViolationMalformedClosePayload:
		return "malformed close payload"
	default:
		return "unknown violation"
	}
}

// CloseCode maps the violation to the status code carried by the Close
// frame that terminates the connection.
func (k ViolationKind) CloseCode() CloseCode {
	switch k {
	case ViolationInvalidUTF8:
		return CloseInvalidPayloadData
	case ViolationMessageTooBig:
		return CloseMessageTooBig
	default:
		return CloseProtocolError
	}
}

// ProtocolViolation is a fatal framing error attributed to the peer.
// Every violation terminates the connection: once the byte stream breaks
// the framing rules it can no longer be trusted to frame-align.
type ProtocolViolation struct {
	Kind    ViolationKind
	Message string
}

// Error implements the error interface.
func (v *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation (%s): %s", v.Kind, v.Message)
}

// Violationf builds a ProtocolViolation with a formatted message.
func Violationf(kind ViolationKind, format string, args ...any) *ProtocolViolation {
	return &ProtocolViolation{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
