// Package keys composes and decomposes database keys out of fixed length
// elements, so the layout of each key table lives in one place and the code
// that reads keys back cannot drift from the code that writes them.
package keys

import (
	"bytes"
	"io"
)

// Element is one fixed length segment of a database key.
type Element interface {
	// Write the binary form of the element to the buffer.
	Write(buf io.Writer)
	// Read the binary form of the element from the buffer. Returns nil if
	// the buffer did not contain enough bytes.
	Read(buf io.Reader) Element
	// Len returns the length in bytes of the element's binary form.
	Len() int
}

// Write composes a key from a list of elements.
func Write(elems ...Element) []byte {
	var length int
	for _, el := range elems {
		length += el.Len()
	}
	buf := bytes.NewBuffer(make([]byte, 0, length))
	for _, el := range elems {
		el.Write(buf)
	}
	return buf.Bytes()
}

// Read decomposes a key into the given elements, which must be the same
// types in the same order as were given to Write.
func Read(b []byte, elems ...Element) {
	buf := bytes.NewBuffer(b)
	for _, el := range elems {
		el.Read(buf)
	}
}
