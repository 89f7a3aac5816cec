// Package subenvelope provides the subscribe request of the varly wire
// protocol, a client asking for stored records since a timestamp, optionally
// narrowed to a set of kinds, followed by live delivery of new matches. A
// connection carries at most one subscription, so the envelope has no
// identifier.
package subenvelope

import (
	"encoding/binary"
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/errorf"
	"varly.lol/kind"
	"varly.lol/timestamp"
	"varly.lol/varint"
)

const L = byte('S')

type T struct {
	Since *timestamp.T
	Kinds []*kind.T
}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{} }

func NewFrom(since *timestamp.T, kinds ...*kind.T) *T {
	if since == nil {
		since = timestamp.FromUnix(0)
	}
	return &T{Since: since, Kinds: kinds}
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
	b, err = envelopes.Marshal(dst, L, func(o []byte) ([]byte, error) {
		o = timestamp.ToVarint(o, en.Since)
		o = binary.AppendUvarint(o, uint64(len(en.Kinds)))
		for _, k := range en.Kinds {
			o = kind.ToVarint(o, k)
		}
		return o, nil
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	if en.Since, rem, err = timestamp.FromVarint(rem); chk.E(err) {
		return
	}
	var nk uint64
	var n int
	if nk, n, err = varint.Decode(rem); chk.E(err) {
		return
	}
	rem = rem[n:]
	// every kind takes at least one byte, so a count past the remaining length
	// cannot be satisfied
	if nk > uint64(len(rem)) {
		err = errorf.E("kind count %d exceeds remaining %d bytes", nk, len(rem))
		return
	}
	en.Kinds = make([]*kind.T, nk)
	for i := range en.Kinds {
		if en.Kinds[i], rem, err = kind.FromVarint(rem); chk.E(err) {
			return
		}
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
