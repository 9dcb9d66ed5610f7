// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// Role determines the masking direction of a connection endpoint.
// Client-role encoders mask every outbound frame; server-role encoders
// never mask. Decoders enforce the inverse on inbound frames.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}

// ConnStatus enumerates the state of the per-connection frame machine.
type ConnStatus int32

const (
	StatusIdle ConnStatus = iota
	StatusAwaitingHeader
	StatusAwaitingPayload
	StatusClosing
	StatusClosed
)

func (s ConnStatus) String() string {
	switch s {
	case StatusAwaitingHeader:
		return "awaiting-header"
	case StatusAwaitingPayload:
		return "awaiting-payload"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	default:
		return "idle"
	}
}

// CloseCode is the 2-byte status value carried in a Close frame payload.
type CloseCode uint16

// Close codes from RFC 6455 section 7.4.1.
const (
	CloseNormalClosure      CloseCode = 1000
	CloseGoingAway          CloseCode = 1001
	CloseProtocolError      CloseCode = 1002
	CloseUnsupportedData    CloseCode = 1003
	CloseNoStatusRcvd       CloseCode = 1005
	CloseAbnormalClosure    CloseCode = 1006
	CloseInvalidPayloadData CloseCode = 1007
	ClosePolicyViolation    CloseCode = 1008
	CloseMessageTooBig      CloseCode = 1009
	CloseMissingExtension   CloseCode = 1010
	CloseInternalServerErr  CloseCode = 1011
	CloseServiceRestart     CloseCode = 1012
	CloseTryAgainLater      CloseCode = 1013
)

// IsValid reports whether the code may be sent on the wire. 1005 and 1006
// are reserved for local reporting only; 3000-4999 are registered and
// private-use ranges.
func (c CloseCode) IsValid() bool {
	switch c {
	case CloseNormalClosure, CloseGoingAway, CloseProtocolError,
		CloseUnsupportedData, CloseInvalidPayloadData, ClosePolicyViolation,
		CloseMessageTooBig, CloseMissingExtension, CloseInternalServerErr,
		CloseServiceRestart, CloseTryAgainLater:
		return true
	}
	return c >= 3000 && c <= 4999
}

// ConnStats aggregates per-connection frame accounting.
type ConnStats struct {
	FramesReceived int64
	FramesSent     int64
	BytesReceived  int64
	BytesSent      int64
}
