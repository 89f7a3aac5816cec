// Package varint is a strict decoder for the base 128 variable length
// encoding of unsigned 64 bit integers. Each byte carries seven value bits,
// least significant group first, and the high bit is the continuation flag;
// the one byte with the flag clear terminates the value.
//
// The decoder is strict about the 64 bit bound: an encoding that runs past
// ten bytes, or whose tenth byte carries value bits above bit 63, does not
// represent a uint64 and is rejected. There is no encoder in this package.
// Writers in this repository produce the wire form with the stdlib
// binary.AppendUvarint, which emits exactly the encoding accepted here.
package varint

import (
	"errors"
	"io"
)

// MaxLen is the most bytes a uint64 occupies in this encoding, nine full
// groups of seven bits and a tenth byte carrying the last single bit.
const MaxLen = 10

var (
	// ErrLengthExceeded means the encoding runs past MaxLen bytes. No uint64
	// encodes that long, so the input is garbage rather than merely short.
	ErrLengthExceeded = errors.New("varint: encoding exceeds 10 byte maximum")

	// ErrMalformed means the input ended before a terminal byte arrived, or
	// the terminal byte carried value bits beyond bit 63.
	ErrMalformed = errors.New("varint: malformed encoding")
)

// Decode reads one varint from the start of b, returning the value and the
// number of bytes consumed. The consumed count is reported on error as well,
// as the distance scanning reached into b, so a caller walking a buffer of
// concatenated values can point at the corrupt spot. The value result is
// zero on error. Decode retains nothing from b and keeps no state between
// calls, so it is safe for concurrent use.
func Decode(b []byte) (v uint64, n int, err error) {
	var shift uint
	for n < len(b) {
		if n == MaxLen {
			v, err = 0, ErrLengthExceeded
			return
		}
		c := b[n]
		n++
		if c < 0x80 {
			if n == MaxLen && c > 1 {
				v, err = 0, ErrMalformed
				return
			}
			v |= uint64(c) << shift
			return
		}
		v |= uint64(c&0x7f) << shift
		shift += 7
	}
	v, err = 0, ErrMalformed
	return
}

// Read decodes one varint from r, pulling a byte at a time, with the same
// bounds and value semantics as Decode. An io.EOF before the first byte
// passes through as io.EOF so callers can detect a clean end of stream; an
// EOF after the value has started is a truncation and reports ErrMalformed.
// Ten continuation bytes are already past the bound, so Read reports
// ErrLengthExceeded at that point without consuming any further.
func Read(r io.Reader) (v uint64, n int, err error) {
	var shift uint
	var buf [1]byte
	for {
		if _, err = io.ReadFull(r, buf[:]); err != nil {
			if n > 0 && errors.Is(err, io.EOF) {
				err = ErrMalformed
			}
			v = 0
			return
		}
		c := buf[0]
		n++
		if c < 0x80 {
			if n == MaxLen && c > 1 {
				v, err = 0, ErrMalformed
				return
			}
			v |= uint64(c) << shift
			return
		}
		if n == MaxLen {
			v, err = 0, ErrLengthExceeded
			return
		}
		v |= uint64(c&0x7f) << shift
		shift += 7
	}
}
