// File: conn/options.go
// Package conn defines functional options for Conn.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package conn

import "github.com/momentics/wsframe/api"

// Option customizes connection initialization.
type Option func(*Conn)

// WithMaxMessageSize bounds reassembled inbound message size in bytes.
// Zero keeps the protocol package default.
func WithMaxMessageSize(n uint64) Option {
	return func(c *Conn) { c.maxMessageSize = n }
}

// WithMaxFrameSize enables outbound fragmentation at n-byte payload
// chunks. Zero keeps the single-frame default.
func WithMaxFrameSize(n int) Option {
	return func(c *Conn) { c.maxFrameSize = n }
}

// WithRandSource overrides the masking key source. Tests inject
// deterministic keys here.
func WithRandSource(rs api.RandSource) Option {
	return func(c *Conn) { c.randSource = rs }
}

// WithAutoPong toggles automatic Pong replies to peer Pings. Enabled by
// default; applications that answer Pings themselves disable it.
func WithAutoPong(enabled bool) Option {
	return func(c *Conn) { c.autoPong = enabled }
}

// WithBufferPool supplies the byte pool backing inbound buffering.
func WithBufferPool(bp api.BytePool) Option {
	return func(c *Conn) { c.bufferPool = bp }
}
