// Package okenvelope provides the acceptance response of the varly wire
// protocol, reporting whether an appended record was stored along with a
// reason when it was not.
package okenvelope

import (
	"encoding/binary"
	"io"

	"varly.lol/chk"
	"varly.lol/codec"
	"varly.lol/envelopes"
	"varly.lol/errorf"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/varint"
)

const L = byte('O')

type T struct {
	Id     []byte
	OK     bool
	Reason []byte
}

var _ codec.Envelope = (*T)(nil)

func New() *T { return &T{} }

func NewFrom[V string | []byte](id V, ok bool, msg ...[]byte) *T {
	var m []byte
	if len(msg) > 0 {
		m = msg[0]
	}
	if len(id) != record.IdLen {
		log.W.F("record ID unexpected length, expect %d got %d",
			record.IdLen, len(id))
	}
	return &T{Id: []byte(id), OK: ok, Reason: m}
}

func (en *T) Label() byte { return L }

func (en *T) ReasonString() string { return string(en.Reason) }

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
		o = append(o, en.Id...)
		if en.OK {
			o = append(o, 1)
		} else {
			o = append(o, 0)
		}
		o = binary.AppendUvarint(o, uint64(len(en.Reason)))
		o = append(o, en.Reason...)
		return o, nil
	})
	return
}

func (en *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	rem = b
	if len(rem) < record.IdLen+1 {
		err = errorf.E("message too short for id and status, got %d", len(rem))
		return
	}
	en.Id, rem = rem[:record.IdLen], rem[record.IdLen:]
	switch rem[0] {
	case 0:
		en.OK = false
	case 1:
		en.OK = true
	default:
		err = errorf.E("invalid status byte %d", rem[0])
		return
	}
	rem = rem[1:]
	var rl uint64
	var n int
	if rl, n, err = varint.Decode(rem); chk.E(err) {
		return
	}
	rem = rem[n:]
	if rl > uint64(len(rem)) {
		err = errorf.E("reason length %d exceeds remaining %d bytes", rl,
			len(rem))
		return
	}
	en.Reason, rem = rem[:rl], rem[rl:]
	return
}

func Parse(b []byte) (t *T, rem []byte, err error) {
	t = New()
	if rem, err = t.UnmarshalBinary(b); chk.E(err) {
		return
	}
	return
}
