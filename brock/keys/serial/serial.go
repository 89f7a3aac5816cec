// Package serial implements a keys.Element for the 8 byte, big endian
// monotonic serial that places every record at a unique position in the log.
package serial

import (
	"encoding/binary"
	"fmt"
	"io"

	"varly.lol/brock/keys"
	"varly.lol/chk"
)

const Len = 8

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

// New returns a serial from its raw bytes. Use nil to get an empty one to
// read into.
func New(ser []byte) (p *T) {
	if ser == nil {
		ser = make([]byte, Len)
	}
	return &T{Val: ser}
}

// Make renders a counter value into the 8 byte big endian form the keys
// carry.
func Make(ser uint64) (v []byte) {
	v = make([]byte, Len)
	binary.BigEndian.PutUint64(v, ser)
	return
}

// FromUint64 returns a serial element wrapping a counter value.
func FromUint64(ser uint64) (p *T) { return &T{Val: Make(ser)} }

// Uint64 returns the serial as the counter value it was minted from.
func (p *T) Uint64() (ser uint64) { return binary.BigEndian.Uint64(p.Val) }

func (p *T) Write(buf io.Writer) {
	if len(p.Val) != Len {
		panic(fmt.Sprintln("must use New or initialize Val with len", Len))
	}
	buf.Write(p.Val)
}

func (p *T) Read(buf io.Reader) (el keys.Element) {
	if len(p.Val) != Len {
		p.Val = make([]byte, Len)
	}
	if n, err := buf.Read(p.Val); chk.E(err) || n != Len {
		return nil
	}
	return p
}

func (p *T) Len() int { return Len }

// FromKey expects to find a serial in the last 8 bytes of a key.
func FromKey(k []byte) (p *T) {
	if len(k) < Len {
		err := fmt.Errorf("cannot get a serial without at least %d bytes", Len)
		panic(err)
	}
	key := make([]byte, 0, Len)
	key = append(key, k[len(k)-Len:]...)
	return &T{Val: key}
}
