// Package kinder implements a keys.Element for the 16 bit record kind value
// for use in indexes.
package kinder

import (
	"encoding/binary"
	"io"

	"varly.lol/brock/keys"
	"varly.lol/chk"
	"varly.lol/kind"
)

const Len = 2

type T struct {
	Val *kind.T
}

var _ keys.Element = &T{}

// New creates a new kinder.T for reading/writing kind.T values.
func New[V uint16 | uint32 | int32 | uint64 | int64 | int](c V) (p *T) {
	return &T{Val: kind.New(c)}
}

// Make renders a kind.T into the 2 byte big endian form the keys carry.
func Make(c *kind.T) (v []byte) {
	v = make([]byte, Len)
	binary.BigEndian.PutUint16(v, c.ToU16())
	return
}

func (c *T) Write(buf io.Writer) {
	buf.Write(Make(c.Val))
}

func (c *T) Read(buf io.Reader) (el keys.Element) {
	b := make([]byte, Len)
	if n, err := buf.Read(b); chk.E(err) || n != Len {
		return nil
	}
	v := binary.BigEndian.Uint16(b)
	c.Val = kind.New(v)
	return c
}

func (c *T) Len() int { return Len }
