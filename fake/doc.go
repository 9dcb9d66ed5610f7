// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development. Provides predictable,
// controllable behavior for the transport and randomness interfaces.
package fake
