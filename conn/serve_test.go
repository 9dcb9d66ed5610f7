package conn_test

import (
	"errors"
	"testing"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/conn"
	"github.com/momentics/wsframe/fake"
)

func TestServeUntilCloseExchange(t *testing.T) {
	tr := fake.NewTransport()
	c := conn.New(api.RoleServer, tr)

	enc := clientEncoder()
	tr.StageRecv(clientMessage(t, api.OpcodeText, []byte("first")))
	tr.StageRecv(clientMessage(t, api.OpcodeBinary, []byte("second")))
	closeFrame, _ := enc.EncodeClose(api.CloseNormalClosure, "done")
	tr.StageRecv(closeFrame)

	var events []api.FrameEvent
	if err := c.Serve(func(ev api.FrameEvent) { events = append(events, ev) }); err != nil {
		t.Fatal(err)
	}

	if len(events) != 3 {
		t.Fatalf("%d events, want 2 messages and a close", len(events))
	}
	if msg := events[0].(api.MessageEvent); string(msg.Payload) != "first" {
		t.Fatalf("event 0: %#v", events[0])
	}
	if msg := events[1].(api.MessageEvent); string(msg.Payload) != "second" {
		t.Fatalf("event 1: %#v", events[1])
	}
	if ev := events[2].(api.CloseEvent); ev.Reason != "done" {
		t.Fatalf("event 2: %#v", events[2])
	}
	if c.Status() != api.StatusClosed || !tr.Closed() {
		t.Fatal("serve returned before teardown completed")
	}
}

func TestServeSurfacesTransportFailureAs1006(t *testing.T) {
	tr := fake.NewTransport()
	c := conn.New(api.RoleServer, tr)

	readErr := errors.New("connection reset")
	tr.SetRecvError(readErr)

	var events []api.FrameEvent
	err := c.Serve(func(ev api.FrameEvent) { events = append(events, ev) })
	if !errors.Is(err, readErr) {
		t.Fatalf("err = %v, want %v", err, readErr)
	}

	if len(events) != 1 {
		t.Fatalf("%d events", len(events))
	}
	ev := events[0].(api.CloseEvent)
	if ev.Code != api.CloseAbnormalClosure {
		t.Fatalf("code %d, want 1006", ev.Code)
	}
	// Abnormal closure never sends a Close frame.
	if len(tr.SentData()) != 0 {
		t.Fatal("close frame sent on transport failure")
	}
}

func TestServeStopsOnProtocolViolation(t *testing.T) {
	tr := fake.NewTransport()
	c := conn.New(api.RoleServer, tr)

	tr.StageRecv([]byte{0x83, 0x80, 1, 2, 3, 4}) // opcode 3

	var events []api.FrameEvent
	err := c.Serve(func(ev api.FrameEvent) { events = append(events, ev) })
	var v *api.ProtocolViolation
	if !errors.As(err, &v) || v.Kind != api.ViolationUnknownOpcode {
		t.Fatalf("err = %v", err)
	}
	if _, ok := events[len(events)-1].(api.ProtocolErrorEvent); !ok {
		t.Fatalf("last event %#v", events[len(events)-1])
	}
}
