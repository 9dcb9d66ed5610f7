package protocol_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/fake"
	"github.com/momentics/wsframe/protocol"
)

func TestEncodeMinimalLengthTier(t *testing.T) {
	enc := protocol.NewEncoder(api.RoleServer, nil, 0)

	tests := []struct {
		plen      int
		len7      byte
		headerLen int
	}{
		{0, 0, 2},
		{1, 1, 2},
		{124, 124, 2},
		{125, 125, 2},
		{126, 126, 4},
		{65535, 126, 4},
		{65536, 127, 10},
		{70000, 127, 10},
	}

	for _, tt := range tests {
		frames, err := enc.EncodeMessage(api.OpcodeBinary, make([]byte, tt.plen))
		if err != nil {
			t.Fatal(err)
		}
		if len(frames) != 1 {
			t.Fatalf("len %d: %d frames, want 1", tt.plen, len(frames))
		}
		frame := frames[0]
		if got := frame[1] & 0x7F; got != tt.len7 {
			t.Fatalf("len %d: LEN7 = %d, want %d", tt.plen, got, tt.len7)
		}
		if len(frame) != tt.headerLen+tt.plen {
			t.Fatalf("len %d: frame size %d, want %d", tt.plen, len(frame), tt.headerLen+tt.plen)
		}
		switch tt.len7 {
		case 126:
			if int(binary.BigEndian.Uint16(frame[2:])) != tt.plen {
				t.Fatalf("len %d: extended u16 mismatch", tt.plen)
			}
		case 127:
			if int(binary.BigEndian.Uint64(frame[2:])) != tt.plen {
				t.Fatalf("len %d: extended u64 mismatch", tt.plen)
			}
		}
	}
}

func TestEncodeMaskedGoldenVector(t *testing.T) {
	rs := fake.StaticRand{Key: [4]byte{0x1A, 0x2B, 0x3C, 0x4D}}
	enc := protocol.NewEncoder(api.RoleClient, rs, 0)

	frames, err := enc.EncodeMessage(api.OpcodeText, []byte("Hello"))
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x81, 0x85, // FIN text, masked len 5
		0x1A, 0x2B, 0x3C, 0x4D, // mask key
		0x52, 0x4E, 0x50, 0x21, 0x75, // "Hello" XOR key
	}
	if !bytes.Equal(frames[0], want) {
		t.Fatalf("frame = % X, want % X", frames[0], want)
	}
}

func TestEncodeDoesNotMutatePayload(t *testing.T) {
	rs := fake.StaticRand{Key: [4]byte{0xDE, 0xAD, 0xBE, 0xEF}}
	enc := protocol.NewEncoder(api.RoleClient, rs, 0)

	payload := []byte("caller owns this buffer")
	orig := append([]byte(nil), payload...)
	if _, err := enc.EncodeMessage(api.OpcodeBinary, payload); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, orig) {
		t.Fatal("masking mutated the caller's payload")
	}
}

func TestEncodeFragmentation(t *testing.T) {
	enc := protocol.NewEncoder(api.RoleServer, nil, 3)
	payload := []byte("12345678")

	frames, err := enc.EncodeMessage(api.OpcodeText, payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("%d frames, want 3", len(frames))
	}

	wantOps := []api.Opcode{api.OpcodeText, api.OpcodeContinuation, api.OpcodeContinuation}
	var joined []byte
	for i, frame := range frames {
		fin := frame[0]&protocol.FinBit != 0
		op := api.Opcode(frame[0] & 0x0F)
		if op != wantOps[i] {
			t.Fatalf("frame %d: opcode %v, want %v", i, op, wantOps[i])
		}
		if fin != (i == len(frames)-1) {
			t.Fatalf("frame %d: fin=%v", i, fin)
		}
		joined = append(joined, frame[2:]...)
	}
	if !bytes.Equal(joined, payload) {
		t.Fatalf("joined fragments %q, want %q", joined, payload)
	}

	// Default policy is a single frame; fragmentation only on request.
	single := protocol.NewEncoder(api.RoleServer, nil, 0)
	frames, err = single.EncodeMessage(api.OpcodeText, payload)
	if err != nil || len(frames) != 1 {
		t.Fatalf("default policy produced %d frames (err=%v)", len(frames), err)
	}
}

func TestEncodeControlBudget(t *testing.T) {
	enc := protocol.NewEncoder(api.RoleServer, nil, 0)

	if _, err := enc.EncodeControl(api.OpcodePing, make([]byte, 125)); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.EncodeControl(api.OpcodePing, make([]byte, 126)); !errors.Is(err, api.ErrControlTooLong) {
		t.Fatalf("err = %v, want ErrControlTooLong", err)
	}
	if _, err := enc.EncodeControl(api.OpcodeText, nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := enc.EncodeMessage(api.OpcodeClose, nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestEncodeCloseValidation(t *testing.T) {
	enc := protocol.NewEncoder(api.RoleServer, nil, 0)

	frame, err := enc.EncodeClose(api.CloseNormalClosure, "done")
	if err != nil {
		t.Fatal(err)
	}
	if frame[0] != 0x88 || frame[1] != 6 {
		t.Fatalf("close frame header % X", frame[:2])
	}

	longReason := string(bytes.Repeat([]byte("x"), 124))
	if _, err := enc.EncodeClose(api.CloseNormalClosure, longReason); !errors.Is(err, api.ErrReasonTooLong) {
		t.Fatalf("err = %v, want ErrReasonTooLong", err)
	}
	if _, err := enc.EncodeClose(api.CloseNoStatusRcvd, ""); !errors.Is(err, api.ErrInvalidCloseCode) {
		t.Fatalf("err = %v, want ErrInvalidCloseCode", err)
	}
}

// Round-trip at every length tier boundary, both masked and unmasked.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 124, 125, 126, 65535, 65536, 70000}
	rs := fake.StaticRand{Key: [4]byte{9, 8, 7, 6}}

	for _, size := range sizes {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		for _, role := range []api.Role{api.RoleServer, api.RoleClient} {
			enc := protocol.NewEncoder(role, rs, 0)
			frames, err := enc.EncodeMessage(api.OpcodeBinary, payload)
			if err != nil {
				t.Fatal(err)
			}

			// Decode from the perspective of the receiving peer.
			peer := api.RoleClient
			if role == api.RoleClient {
				peer = api.RoleServer
			}
			msg := singleMessage(t, decodeStream(t, peer, frames[0]))
			if !bytes.Equal(msg.Payload, payload) {
				t.Fatalf("size %d role %v: decode(encode(m)) != m", size, role)
			}
		}
	}
}
