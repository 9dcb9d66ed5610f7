package conn_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/conn"
	"github.com/momentics/wsframe/fake"
)

func TestWriterPreservesFIFO(t *testing.T) {
	tr := fake.NewTransport()
	w := conn.NewWriter(tr)
	w.Start()

	var want [][]byte
	for i := 0; i < 10; i++ {
		frame := []byte(fmt.Sprintf("frame-%02d", i))
		want = append(want, frame)
		if err := w.Enqueue(frame); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	sent := tr.SentData()
	if len(sent) != len(want) {
		t.Fatalf("%d frames sent, want %d", len(sent), len(want))
	}
	for i := range want {
		if !bytes.Equal(sent[i], want[i]) {
			t.Fatalf("frame %d out of order: %q", i, sent[i])
		}
	}
	if !tr.Closed() {
		t.Fatal("transport left open")
	}
}

func TestWriterEnqueueAfterClose(t *testing.T) {
	w := conn.NewWriter(fake.NewTransport())
	w.Start()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Enqueue([]byte("late")); !errors.Is(err, api.ErrConnectionClosed) {
		t.Fatalf("err = %v, want ErrConnectionClosed", err)
	}
}

func TestWriterReportsSendFailure(t *testing.T) {
	tr := fake.NewTransport()
	sendErr := errors.New("broken pipe")
	tr.SetSendError(sendErr)

	w := conn.NewWriter(tr)
	w.Start()
	if err := w.Enqueue([]byte("doomed")); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if !errors.Is(w.Err(), sendErr) {
		t.Fatalf("Err() = %v, want %v", w.Err(), sendErr)
	}
	w.Abort()
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	w := conn.NewWriter(fake.NewTransport())
	w.Start()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
