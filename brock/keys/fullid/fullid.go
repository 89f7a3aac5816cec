// Package fullid implements a keys.Element for a complete 32 byte record id.
package fullid

import (
	"fmt"
	"io"

	"varly.lol/brock/keys"
	"varly.lol/chk"
	"varly.lol/record"
)

const Len = record.IdLen

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

// New returns an element holding a copy of the given record id, or an empty
// one to read into when no id is given.
func New(id ...[]byte) (p *T) {
	if len(id) < 1 {
		return &T{Val: make([]byte, Len)}
	}
	v := make([]byte, Len)
	copy(v, id[0])
	return &T{Val: v}
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
