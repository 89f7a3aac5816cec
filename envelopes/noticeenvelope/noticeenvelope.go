// Package noticeenvelope provides the notice message of the varly wire
// protocol, a human readable message from the server about a protocol or
// policy error.
package noticeenvelope

import (
	"encoding/binary"
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/errorf"
	"varly.lol/varint"
)

const L = byte('N')

type T struct {
	Message []byte
}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{} }

func NewFrom[V string | []byte](msg V) *T { return &T{Message: []byte(msg)} }

func (en *T) Label() byte { return L }

func (en *T) MessageString() string { return string(en.Message) }

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
		o = binary.AppendUvarint(o, uint64(len(en.Message)))
		o = append(o, en.Message...)
		return o, nil
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	var ml uint64
	var n int
	if ml, n, err = varint.Decode(rem); chk.E(err) {
		return
	}
	rem = rem[n:]
	if ml > uint64(len(rem)) {
		err = errorf.E("message length %d exceeds remaining %d bytes", ml,
			len(rem))
		return
	}
	en.Message, rem = rem[:ml], rem[ml:]
	return
}

func Parse(b []byte) (t *T, rem []byte, err error) {
	t = New()
	if rem, err = t.UnmarshalBinary(b); chk.E(err) {
		return
	}
	return
}
