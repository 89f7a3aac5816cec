// Package codec is a set of interfaces for varly wire messages and message
// elements.
package codec

import (
	"io"
)

// Envelope is the interface for the messages of the varly wire protocol, a one
// byte label followed by the binary payload of the message type the label
// names.
type Envelope interface {
	// Label returns the single byte that signifies the type of message.
	Label() byte
	// Write outputs the envelope to an io.Writer.
	Write(w io.Writer) (err error)
	Binary
}

// Binary is a simplified form of the stdlib binary Marshal/Unmarshal
// interfaces, in the append-and-remainder style used throughout this
// repository.
type Binary interface {
	// MarshalBinary converts the data of the type into binary form, appending it
	// to the provided slice and returning the extended slice.
	MarshalBinary(dst []byte) (b []byte, err error)
	// UnmarshalBinary decodes a binary form of a type back into the runtime form,
	// and returns whatever remains after the type has been decoded out.
	UnmarshalBinary(b []byte) (r []byte, err error)
}
