// File: conn/writer.go
// Package conn implements single-writer outbound serialization.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// All outbound frame bytes for one connection funnel through a Writer.
// Producers enqueue encoded frames from any goroutine; one drain path
// moves them to the transport in FIFO order so bytes from two frames
// never interleave on the stream.

package conn

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/wsframe/api"
)

// Writer owns the outbound half of a connection's transport.
type Writer struct {
	tr api.Transport

	mu      sync.Mutex
	pending *queue.Queue
	closed  bool

	// sendMu serializes drain passes so batches leave in queue order.
	sendMu sync.Mutex

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	errMu sync.Mutex
	err   error
}

// NewWriter builds a writer over tr. Call Start to launch the drain loop.
func NewWriter(tr api.Transport) *Writer {
	return &Writer{
		tr:      tr,
		pending: queue.New(),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start launches the drain loop goroutine.
func (w *Writer) Start() {
	go w.loop()
}

// Enqueue queues one encoded frame for transmission.
func (w *Writer) Enqueue(frame []byte) error {
	return w.EnqueueAll([][]byte{frame})
}

// EnqueueAll queues frames, preserving their relative order. Frames from
// concurrent callers never interleave mid-sequence because the queue is
// appended under one lock.
func (w *Writer) EnqueueAll(frames [][]byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return api.ErrConnectionClosed
	}
	for _, f := range frames {
		w.pending.Add(f)
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush synchronously drains whatever is pending. The drain loop covers
// the steady state; Flush serves shutdown paths and tests.
func (w *Writer) Flush() {
	w.flush()
}

// Close flushes pending frames, closes the transport, and waits for the
// drain loop to exit. Safe to call more than once.
func (w *Writer) Close() error {
	w.shutdown(false)
	return w.Err()
}

// Abort drops pending frames and closes the transport immediately.
func (w *Writer) Abort() {
	w.shutdown(true)
}

// Err reports the first transport failure observed by the writer.
func (w *Writer) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *Writer) loop() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.done:
			w.flush()
			w.setErr(w.tr.Close())
			return
		}
	}
}

// flush drains the pending queue into one batched Send.
func (w *Writer) flush() {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	w.mu.Lock()
	n := w.pending.Length()
	if n == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, w.pending.Remove().([]byte))
	}
	w.mu.Unlock()

	if err := w.tr.Send(batch); err != nil {
		w.setErr(err)
	}
}

func (w *Writer) shutdown(drop bool) {
	w.mu.Lock()
	w.closed = true
	if drop {
		w.pending = queue.New()
	}
	w.mu.Unlock()
	w.once.Do(func() { close(w.done) })
	<-w.stopped
}

func (w *Writer) setErr(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}
