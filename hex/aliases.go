// Package hex is a set of shorter names for the stdlib hex encoder functions,
// with append variants that use the SIMD accelerated templexxx/xhex codec.
// Record ids travel as hex strings on the HTTP API and the vint command line.
package hex

import (
	"encoding/hex"

	"github.com/templexxx/xhex"

	"varly.lol/chk"
)

var Enc = hex.EncodeToString
var EncBytes = hex.Encode
var Dec = hex.DecodeString
var DecBytes = hex.Decode

var DecLen = hex.DecodedLen
var EncLen = hex.EncodedLen

type InvalidByteError = hex.InvalidByteError

// EncAppend appends the hex encoding of src to dst and returns the extended
// slice.
func EncAppend(dst, src []byte) (b []byte) {
	l := len(dst)
	dst = append(dst, make([]byte, len(src)*2)...)
	xhex.Encode(dst[l:], src)
	return dst
}

// DecAppend appends the decoded bytes of the hex in src to dst and returns the
// extended slice.
func DecAppend(dst, src []byte) (b []byte, err error) {
	l := len(dst)
	b = dst
	b = append(b, make([]byte, len(src)/2)...)
	if err = xhex.Decode(b[l:], src); chk.E(err) {
		return
	}
	return
}
