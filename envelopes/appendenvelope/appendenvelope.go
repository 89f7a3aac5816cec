// Package appendenvelope provides the append request of the varly wire
// protocol, a client asking the server to store a record.
package appendenvelope

import (
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/record"
)

const L = byte('A')

type T struct {
	Record *record.T
}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{Record: &record.T{}} }

func NewFrom(rec *record.T) *T { return &T{Record: rec} }

func (en *T) Label() byte { return L }

func (en *T) Write(w io.Writer) (err error) {
	var b []byte
	if b, err = en.MarshalBinary(nil); chk.E(err) {
		return
	}
	_, err = w.Write(b)
	return
}

func (en *T) MarshalBinary(dst []byte) (b []byte, err error) {
	b, err = envelopes.Marshal(dst, L, func(o []byte) ([]byte, error) {
		return en.Record.MarshalBinary(o)
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	if en.Record == nil {
		en.Record = &record.T{}
	}
	if rem, err = en.Record.UnmarshalBinary(rem); chk.E(err) {
		return
	}
	return
}

func Parse(b []byte) (t *T, rem []byte, err error) {
	t = New()
	if rem, err = t.UnmarshalBinary(b); chk.E(err) {
		return
	}
	return
}
