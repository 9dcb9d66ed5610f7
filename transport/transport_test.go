package transport_test

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/momentics/wsframe/api"
	"github.com/momentics/wsframe/transport"
)

var _ api.Transport = (*transport.NetTransport)(nil)

func TestNetTransportSendRecv(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	tr := transport.New(local, nil)
	defer tr.Close()

	// Outbound: vectored send arrives as one ordered stream.
	go func() {
		_ = tr.Send([][]byte{[]byte("ab"), []byte("cd")})
	}()
	got := make([]byte, 4)
	if _, err := io.ReadFull(remote, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("abcd")) {
		t.Fatalf("peer read %q", got)
	}

	// Inbound: chunks surface through Recv.
	go func() {
		_, _ = remote.Write([]byte("inbound bytes"))
	}()
	chunks, err := tr.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || !bytes.Equal(chunks[0], []byte("inbound bytes")) {
		t.Fatalf("Recv() = %q", chunks)
	}
	tr.ReleaseRecv(chunks[0])
}

func TestNetTransportRecvAfterPeerClose(t *testing.T) {
	local, remote := net.Pipe()
	tr := transport.New(local, nil)
	defer tr.Close()

	remote.Close()
	if _, err := tr.Recv(); err == nil {
		t.Fatal("Recv on closed pipe should fail")
	}
}
