// Package envelopes implements the common framing of the varly wire protocol.
// Every message is a single label byte followed by the binary payload of the
// envelope type the label names. Identify takes the label off the front, and
// the envelope's UnmarshalBinary then decodes the payload that remains.
package envelopes

import (
	"varly.lol/chk"
	"varly.lol/errorf"
)

// Marshaler appends the payload of an envelope to dst.
type Marshaler func(dst []byte) (b []byte, err error)

// Identify returns the label byte of a wire message and the payload that
// follows it, the first step in decoding a message off a socket.
func Identify(b []byte) (t byte, rem []byte, err error) {
	if len(b) == 0 {
		err = errorf.E("cannot identify an empty message")
		return
	}
	t, rem = b[0], b[1:]
	return
}

// Marshal appends the label byte and then the payload produced by m to dst.
func Marshal(dst []byte, label byte, m Marshaler) (b []byte, err error) {
	b = append(dst, label)
	if b, err = m(b); chk.E(err) {
		return
	}
	return
}
