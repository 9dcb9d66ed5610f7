// File: api/events.go
// Package api defines frame events emitted by the inbound codec path.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// FrameEvent is one discrete outcome of feeding inbound bytes to a
// connection: a complete data message, a control notification, or the
// fatal protocol violation terminating the stream. The set of
// implementations is closed.
type FrameEvent interface {
	frameEvent()
}

// MessageEvent carries a complete, reassembled data message.
type MessageEvent struct {
	Kind    Opcode // OpcodeText or OpcodeBinary
	Payload []byte
}

// PingEvent reports a peer Ping and its application payload.
type PingEvent struct{ Payload []byte }

// PongEvent reports a peer Pong.
type PongEvent struct{ Payload []byte }

// CloseEvent reports a Close frame or an abnormal closure. Code is
// CloseNoStatusRcvd when the peer sent an empty Close payload and
// CloseAbnormalClosure when the transport failed without a Close exchange.
type CloseEvent struct {
	Code   CloseCode
	Reason string
}

// ProtocolErrorEvent reports the violation that terminated the connection.
// No partial message precedes or follows it.
type ProtocolErrorEvent struct{ Violation *ProtocolViolation }

func (MessageEvent) frameEvent()       {}
func (PingEvent) frameEvent()          {}
func (PongEvent) frameEvent()          {}
func (CloseEvent) frameEvent()         {}
func (ProtocolErrorEvent) frameEvent() {}
