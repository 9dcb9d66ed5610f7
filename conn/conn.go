// File: conn/conn.go
// Package conn implements the core per-connection frame handling.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conn encapsulates one full-duplex WebSocket session after the external
// handshake: bytes in, frame events out, and a serialized outbound path.
// Exactly one logical reader drives Feed; the send methods are safe from
// any goroutine.

package conn

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/pool"
	"github.com/momentics/wsframe/protocol"
)

// Conn is the frame state machine for one WebSocket connection.
type Conn struct {
	role api.Role
	tr   api.Transport

	parser *protocol.HeaderParser
	asm    *protocol.Assembler
	enc    *protocol.Encoder

	in     *pool.Arena
	writer *Writer

	status    atomic.Int32
	inPayload bool // current parse phase: header vs payload

	closeMu    sync.Mutex
	closeSent  bool
	peerClosed bool

	maxMessageSize uint64
	maxFrameSize   int
	randSource     api.RandSource
	bufferPool     api.BytePool
	autoPong       bool

	framesIn  atomic.Int64
	framesOut atomic.Int64
	bytesIn   atomic.Int64
	bytesOut  atomic.Int64
}

// New builds a connection state machine of the given role over tr and
// launches its writer. The connection starts awaiting a frame header.
func New(role api.Role, tr api.Transport, opts ...Option) *Conn {
	c := &Conn{
		role:     role,
		tr:       tr,
		autoPong: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = protocol.NewHeaderParser(role)
	c.asm = protocol.NewAssembler(c.maxMessageSize)
	c.enc = protocol.NewEncoder(role, c.randSource, c.maxFrameSize)
	c.in = pool.NewArena(c.bufferPool)
	c.writer = NewWriter(tr)
	c.writer.Start()
	c.status.Store(int32(api.StatusAwaitingHeader))
	return c
}

// Role returns the endpoint role of this connection.
func (c *Conn) Role() api.Role {
	return c.role
}

// Status returns the current state machine status.
func (c *Conn) Status() api.ConnStatus {
	return api.ConnStatus(c.status.Load())
}

// Stats returns a snapshot of frame accounting for metrics reporting.
func (c *Conn) Stats() api.ConnStats {
	return api.ConnStats{
		FramesReceived: c.framesIn.Load(),
		FramesSent:     c.framesOut.Load(),
		BytesReceived:  c.bytesIn.Load(),
		BytesSent:      c.bytesOut.Load(),
	}
}

// Feed consumes inbound transport bytes and returns the frame events they
// complete. Calls must be sequential: header and payload parsing is
// stateful across reads, and feeding one byte at a time yields the same
// events as feeding whole frames.
//
// A protocol violation terminates the connection: a best-effort Close
// frame with the mapped status code is flushed, the transport shuts down,
// and the violation returns as both a ProtocolErrorEvent and the error.
func (c *Conn) Feed(p []byte) ([]api.FrameEvent, error) {
	if c.Status() == api.StatusClosed {
		return nil, api.ErrConnectionClosed
	}

	c.in.Write(p)
	var events []api.FrameEvent

	for c.Status() != api.StatusClosed {
		if !c.inPayload {
			hdr, consumed, need, err := c.parser.Parse(c.in.Bytes())
			if err != nil {
				return c.fail(events, err)
			}
			if need > 0 {
				return events, nil
			}
			c.in.Consume(consumed)
			if err := c.asm.Begin(hdr); err != nil {
				return c.fail(events, err)
			}
			c.framesIn.Add(1)
			c.inPayload = true
			c.setParsePhase(api.StatusAwaitingPayload)
			continue
		}

		evs, consumed, err := c.asm.Push(c.in.Bytes())
		c.in.Consume(consumed)
		c.bytesIn.Add(int64(consumed))
		if err != nil {
			return c.fail(events, err)
		}
		events = append(events, evs...)
		if !c.asm.FrameDone() {
			// The frame needs more transport bytes.
			return events, nil
		}
		c.inPayload = false
		c.setParsePhase(api.StatusAwaitingHeader)
		c.react(evs)
	}

	return events, nil
}

// Serve drives the transport's inbound side until the connection closes,
// invoking handler for every frame event. It is the one logical reader of
// the connection. Transport read failures surface as an abnormal closure
// without a Close frame; protocol violations return after their mapped
// Close frame has been flushed.
func (c *Conn) Serve(handler func(api.FrameEvent)) error {
	for {
		chunks, err := c.tr.Recv()
		if err != nil {
			for _, ev := range c.Abort() {
				handler(ev)
			}
			return err
		}
		for _, chunk := range chunks {
			events, ferr := c.Feed(chunk)
			for _, ev := range events {
				handler(ev)
			}
			if ferr != nil {
				return ferr
			}
		}
		if c.Status() == api.StatusClosed {
			return nil
		}
	}
}

// Abort tears the connection down after a transport-level failure or an
// explicit cancellation. Any in-flight message is discarded without
// delivery and no Close frame is sent; the application observes an
// abnormal closure.
func (c *Conn) Abort() []api.FrameEvent {
	if c.Status() == api.StatusClosed {
		return nil
	}
	c.asm.Reset()
	c.in.Reset()
	c.writer.Abort()
	c.status.Store(int32(api.StatusClosed))
	return []api.FrameEvent{api.CloseEvent{Code: api.CloseAbnormalClosure}}
}

// SendText serializes s as a text message through the writer.
func (c *Conn) SendText(s string) error {
	return c.sendMessage(api.OpcodeText, []byte(s))
}

// SendBinary serializes p as a binary message through the writer.
func (c *Conn) SendBinary(p []byte) error {
	return c.sendMessage(api.OpcodeBinary, p)
}

// SendPing sends a Ping control frame. Payload must fit the 125-byte
// control budget.
func (c *Conn) SendPing(payload []byte) error {
	return c.sendControl(api.OpcodePing, payload)
}

// SendPong sends a Pong control frame.
func (c *Conn) SendPong(payload []byte) error {
	return c.sendControl(api.OpcodePong, payload)
}

// SendClose starts the closing handshake with code and reason. Only the
// first Close wins; later calls report the connection as closed. The
// state machine moves to Closing and completes the transition to Closed
// when the peer's Close arrives via Feed.
func (c *Conn) SendClose(code api.CloseCode, reason string) error {
	frame, err := c.enc.EncodeClose(code, reason)
	if err != nil {
		return err
	}
	if !c.markCloseSent() {
		return api.ErrConnectionClosed
	}
	if err := c.writer.Enqueue(frame); err != nil {
		return err
	}
	c.framesOut.Add(1)
	c.enterClosing()
	c.writer.Flush()
	return nil
}

// Close starts a normal closure handshake.
func (c *Conn) Close() error {
	return c.SendClose(api.CloseNormalClosure, "")
}

// Flush forces any queued outbound frames onto the transport.
func (c *Conn) Flush() {
	c.writer.Flush()
}

// WriteErr reports the first transport failure observed on the outbound
// path.
func (c *Conn) WriteErr() error {
	return c.writer.Err()
}

func (c *Conn) sendMessage(kind api.Opcode, payload []byte) error {
	if s := c.Status(); s == api.StatusClosing || s == api.StatusClosed {
		return api.ErrConnectionClosed
	}
	frames, err := c.enc.EncodeMessage(kind, payload)
	if err != nil {
		return err
	}
	if err := c.writer.EnqueueAll(frames); err != nil {
		return err
	}
	c.framesOut.Add(int64(len(frames)))
	c.bytesOut.Add(int64(len(payload)))
	return nil
}

func (c *Conn) sendControl(kind api.Opcode, payload []byte) error {
	if s := c.Status(); s == api.StatusClosing || s == api.StatusClosed {
		return api.ErrConnectionClosed
	}
	frame, err := c.enc.EncodeControl(kind, payload)
	if err != nil {
		return err
	}
	if err := c.writer.Enqueue(frame); err != nil {
		return err
	}
	c.framesOut.Add(1)
	return nil
}

// react applies connection-level policy to the events of one completed
// frame: automatic Pong replies and the Close handshake.
func (c *Conn) react(evs []api.FrameEvent) {
	for _, ev := range evs {
		switch ev := ev.(type) {
		case api.PingEvent:
			if c.autoPong {
				// Best effort; a closing connection drops the reply.
				_ = c.SendPong(ev.Payload)
			}
		case api.CloseEvent:
			c.closeMu.Lock()
			c.peerClosed = true
			c.closeMu.Unlock()

			if c.markCloseSent() {
				// First Close seen is peer-initiated: echo before closing.
				code := ev.Code
				if code == api.CloseNoStatusRcvd {
					code = api.CloseNormalClosure
				}
				if frame, err := c.enc.EncodeClose(code, ""); err == nil {
					if c.writer.Enqueue(frame) == nil {
						c.framesOut.Add(1)
					}
				}
			}
			c.enterClosing()
			// Both directions have now sent Close: the exchange is done.
			c.shutdown()
		}
	}
}

// fail terminates the connection on a protocol violation: queue a
// best-effort Close carrying the mapped status code, flush, shut the
// transport down, and surface the violation. No partial or malformed
// message reaches the application.
func (c *Conn) fail(events []api.FrameEvent, err error) ([]api.FrameEvent, error) {
	var v *api.ProtocolViolation
	if !errors.As(err, &v) {
		v = api.Violationf(api.ViolationUnknownOpcode, "unclassified framing error: %v", err)
	}

	events = append(events, api.ProtocolErrorEvent{Violation: v})
	if c.markCloseSent() {
		if frame, encErr := c.enc.EncodeClose(v.Kind.CloseCode(), v.Kind.String()); encErr == nil {
			if c.writer.Enqueue(frame) == nil {
				c.framesOut.Add(1)
			}
		}
	}
	c.enterClosing()
	c.shutdown()
	return events, v
}

// shutdown discards parse state, flushes pending output, closes the
// transport, and finalizes the Closed status.
func (c *Conn) shutdown() {
	c.asm.Reset()
	c.in.Reset()
	c.inPayload = false
	_ = c.writer.Close()
	c.status.Store(int32(api.StatusClosed))
}

// markCloseSent returns true for exactly one caller per connection.
func (c *Conn) markCloseSent() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closeSent {
		return false
	}
	c.closeSent = true
	return true
}

// enterClosing raises the status to Closing without ever downgrading a
// Closed connection.
func (c *Conn) enterClosing() {
	for {
		s := c.status.Load()
		if s >= int32(api.StatusClosing) {
			return
		}
		if c.status.CompareAndSwap(s, int32(api.StatusClosing)) {
			return
		}
	}
}

// setParsePhase records the header/payload phase while the connection is
// still in its active states; Closing and Closed are sticky.
func (c *Conn) setParsePhase(s api.ConnStatus) {
	for {
		cur := c.status.Load()
		if cur >= int32(api.StatusClosing) {
			return
		}
		if c.status.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}
