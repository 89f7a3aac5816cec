// Package closeenvelope provides the unsubscribe request of the varly wire
// protocol. A connection carries at most one subscription, so the payload is
// empty.
package closeenvelope

import (
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
)

const L = byte('C')

type T struct{}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{} }

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
		return o, nil
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	return
}

func Parse(b []byte) (t *T, rem []byte, err error) {
	t = New()
	if rem, err = t.UnmarshalBinary(b); chk.E(err) {
		return
	}
	return
}
