// File: protocol/close.go
// Author: momentics <momentics@gmail.com>
//
// Close frame payload layout: optional 2-byte big-endian status code
// followed by a UTF-8 reason string.

package protocol

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/momentics/wsframe/api"
)

// ParseClosePayload decodes the payload of a Close frame. An empty payload
// means the peer sent no status (reported as CloseNoStatusRcvd); a single
// byte cannot hold a status code and is a protocol violation.
func ParseClosePayload(p []byte) (api.CloseCode, string, error) {
	switch {
	case len(p) == 0:
		return api.CloseNoStatusRcvd, "", nil
	case len(p) == 1:
		return 0, "", api.Violationf(api.ViolationMalformedClosePayload,
			"close payload of 1 byte cannot hold a status code")
	}
	code := api.CloseCode(binary.BigEndian.Uint16(p))
	reason := p[2:]
	if !utf8.Valid(reason) {
		return 0, "", api.Violationf(api.ViolationInvalidUTF8,
			"close reason is not valid UTF-8")
	}
	return code, string(reason), nil
}

// AppendClosePayload appends code and reason in wire layout.
func AppendClosePayload(dst []byte, code api.CloseCode, reason string) []byte {
	var cb [2]byte
	binary.BigEndian.PutUint16(cb[:], uint16(code))
	dst = append(dst, cb[:]...)
	return append(dst, reason...)
}
