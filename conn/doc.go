// Package conn
// Author: momentics <momentics@gmail.com>
//
// Per-connection frame state machine for wsframe.
//
// Conn owns inbound buffering, sequences header parsing and payload
// assembly across arbitrarily chunked transport reads, enforces the
// fragmentation and control-frame interleaving rules, and serializes
// every outbound frame through a single writer path.
package conn
