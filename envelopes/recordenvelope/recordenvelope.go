// Package recordenvelope provides the record delivery message of the varly
// wire protocol, a server sending a stored record and its serial to a
// subscribed client.
package recordenvelope

import (
	"encoding/binary"
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/record"
	"varly.lol/varint"
)

const L = byte('R')

type T struct {
	Serial uint64
	Record *record.T
}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{Record: &record.T{}} }

func NewFrom(serial uint64, rec *record.T) *T {
	return &T{Serial: serial, Record: rec}
}

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
	b, err = envelopes.Marshal(dst, L, func(o []byte) (oo []byte, err error) {
		o = binary.AppendUvarint(o, en.Serial)
		if o, err = en.Record.MarshalBinary(o); chk.E(err) {
			return
		}
		oo = o
		return
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	var n int
	if en.Serial, n, err = varint.Decode(rem); chk.E(err) {
		return
	}
	rem = rem[n:]
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
