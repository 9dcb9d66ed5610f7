//go:build linux
// +build linux

// File: transport/tune_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux socket tuning via raw sockopts.

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

// tuneConn disables Nagle coalescing on TCP sockets. Frame boundaries are
// already decided by the codec, so kernel batching only adds latency.
func tuneConn(conn net.Conn) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	raw, err := tcp.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
}
