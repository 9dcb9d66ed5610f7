// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the RFC 6455 base framing layer for wsframe.
//
// Designed for streaming use: every parser in this package is resumable
// across arbitrarily chunked transport reads and never assumes a frame
// arrives whole.
//
// Includes:
//   - Incremental frame header parsing with explicit need-more-bytes results
//   - Payload unmasking and fragmented message reassembly
//   - Outbound frame serialization with role-driven masking
//   - Close frame payload layout (status code plus UTF-8 reason)
package protocol
