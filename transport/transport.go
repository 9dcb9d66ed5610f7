// File: transport/transport.go
// Package transport implements the net.Conn-backed byte-stream layer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"net"
	"runtime"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/pool"
)

const defaultReadChunk = 32 * 1024

// NetTransport drives a net.Conn as the byte-stream collaborator beneath
// a connection state machine. Read chunks come from the byte pool; the
// caller releases them after feeding the codec.
type NetTransport struct {
	conn      net.Conn
	pool      api.BytePool
	readChunk int
}

// New wraps conn. A nil pool falls back to heap allocation. TCP
// connections get platform-specific socket tuning.
func New(conn net.Conn, bp api.BytePool) *NetTransport {
	if bp == nil {
		bp = pool.Heap{}
	}
	tuneConn(conn)
	return &NetTransport{conn: conn, pool: bp, readChunk: defaultReadChunk}
}

// Recv reads one chunk from the stream.
func (t *NetTransport) Recv() ([][]byte, error) {
	buf := t.pool.Acquire(t.readChunk)
	n, err := t.conn.Read(buf)
	if err != nil {
		t.pool.Release(buf)
		return nil, err
	}
	return [][]byte{buf[:n]}, nil
}

// Send writes buffers to the stream in order using vectored I/O.
func (t *NetTransport) Send(buffers [][]byte) error {
	bufs := net.Buffers(buffers)
	_, err := bufs.WriteTo(t.conn)
	return err
}

// Close shuts the connection down.
func (t *NetTransport) Close() error {
	return t.conn.Close()
}

// Features implements api.Transport.
func (t *NetTransport) Features() api.TransportFeatures {
	return api.TransportFeatures{Batch: true, OS: []string{runtime.GOOS}}
}

// ReleaseRecv returns a buffer obtained from Recv to the pool.
func (t *NetTransport) ReleaseRecv(buf []byte) {
	t.pool.Release(buf)
}
