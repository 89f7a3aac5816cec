// Package idhash implements a keys.Element containing the first 8 bytes of a
// record id, enough to find a record by id with a prefix scan while keeping
// the index keys short.
package idhash

import (
	"fmt"
	"io"

	"varly.lol/brock/keys"
	"varly.lol/chk"
	"varly.lol/errorf"
	"varly.lol/record"
)

const Len = 8

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

// New returns an element holding the truncated form of the given record id.
// With no argument it returns an empty one to read into.
func New(id ...[]byte) (p *T) {
	if len(id) < 1 || len(id[0]) < Len {
		return &T{Val: make([]byte, Len)}
	}
	return &T{Val: id[0][:Len]}
}

// NewFromBytes is the strict form of New, requiring a full length record id.
func NewFromBytes(id []byte) (p *T, err error) {
	if len(id) != record.IdLen {
		err = errorf.E("record id must be %d bytes got %d %0x",
			record.IdLen, len(id), id)
		return
	}
	p = &T{Val: id[:Len]}
	return
}

func (p *T) Write(buf io.Writer) {
	if len(p.Val) != Len {
		panic(fmt.Sprintln("must use New or initialize Val with len", Len))
	}
	buf.Write(p.Val)
}

func (p *T) Read(buf io.Reader) (el keys.Element) {
	// allow uninitialized struct
	if len(p.Val) != Len {
		p.Val = make([]byte, Len)
	}
	if n, err := buf.Read(p.Val); chk.E(err) || n != Len {
		return nil
	}
	return p
}

func (p *T) Len() int { return Len }
