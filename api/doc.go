// Package api
// Author: momentics <momentics@gmail.com>
//
// Core contracts for the wsframe codec: wire-level enums, the protocol
// violation taxonomy, frame events, and the abstract interfaces binding
// the codec to transports, buffer pools, and masking randomness sources.
package api
