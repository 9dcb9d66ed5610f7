// Package transport
// Author: momentics <momentics@gmail.com>
//
// Adapts a net.Conn to the api.Transport contract so the frame state
// machine can drive a real socket. Platform-specific socket tuning is
// separated by build tags.
package transport
