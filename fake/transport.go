// File: fake/transport.go
// Author: momentics <momentics@gmail.com>
//
// Fake api.Transport for tests: inbound chunks are staged by the test,
// outbound frames accumulate for inspection.

package fake

import (
	"sync"

	"github.com/momentics/wsframe/api"
)

// Transport is a fake implementation of api.Transport.
type Transport struct {
	mu         sync.Mutex
	sentFrames [][]byte
	recvQueue  [][]byte
	closed     bool
	sendError  error
	recvError  error
}

// NewTransport creates an empty fake transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Send implements api.Transport.Send.
func (t *Transport) Send(buffers [][]byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return api.ErrTransportClosed
	}
	if t.sendError != nil {
		return t.sendError
	}
	for _, buf := range buffers {
		cp := make([]byte, len(buf))
		copy(cp, buf)
		t.sentFrames = append(t.sentFrames, cp)
	}
	return nil
}

// Recv implements api.Transport.Recv, draining the staged chunks.
func (t *Transport) Recv() ([][]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, api.ErrTransportClosed
	}
	if t.recvError != nil {
		return nil, t.recvError
	}
	out := t.recvQueue
	t.recvQueue = nil
	return out, nil
}

// Close implements api.Transport.Close.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Features implements api.Transport.Features.
func (t *Transport) Features() api.TransportFeatures {
	return api.TransportFeatures{Batch: true, OS: []string{"fake"}}
}

// StageRecv appends a chunk for the next Recv call.
func (t *Transport) StageRecv(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	t.recvQueue = append(t.recvQueue, cp)
}

// SentData returns every buffer written so far, in send order.
func (t *Transport) SentData() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sentFrames))
	copy(out, t.sentFrames)
	return out
}

// SentBytes returns the concatenated outbound stream.
func (t *Transport) SentBytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []byte
	for _, f := range t.sentFrames {
		out = append(out, f...)
	}
	return out
}

// Closed reports whether Close has been called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// SetSendError makes subsequent Send calls fail with err.
func (t *Transport) SetSendError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendError = err
}

// SetRecvError makes subsequent Recv calls fail with err.
func (t *Transport) SetRecvError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recvError = err
}
