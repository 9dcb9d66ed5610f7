//go:build !linux
// +build !linux

// File: transport/tune_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import "net"

// tuneConn is a no-op on platforms without raw sockopt tuning.
func tuneConn(net.Conn) {}
