package recordenvelope

import (
	"bytes"
	"testing"

	"lukechampine.com/frand"

	"varly.lol/chk"
	"varly.lol/envelopes"
	"varly.lol/hex"
	"varly.lol/kind"
	"varly.lol/record"
	"varly.lol/tag"
	"varly.lol/tags"
	"varly.lol/timestamp"
)

func genRecord() (rec *record.T) {
	return record.NewFrom(
		timestamp.FromUnix(int64(frand.Uint64n(1<<40))),
		kind.New(frand.Intn(65536)),
		tags.New(tag.New("source", hex.Enc(frand.Bytes(8)))),
		frand.Bytes(frand.Intn(256)+1),
	)
}

func TestMarshalUnmarshal(t *testing.T) {
	var err error
	rb, rb1, rb2 := make([]byte, 0, 65535), make([]byte, 0, 65535),
		make([]byte, 0, 65535)
	for range 1000 {
		req := NewFrom(frand.Uint64n(1<<50), genRecord())
		if rb, err = req.MarshalBinary(rb); chk.E(err) {
			t.Fatal(err)
		}
		rb1 = append(rb1[:0], rb...)
		var rem []byte
		var l byte
		if l, rb, err = envelopes.Identify(rb); chk.E(err) {
			t.Fatal(err)
		}
		if l != L {
			t.Fatalf("invalid sentinel %d, expect %d", l, L)
		}
		req2 := New()
		if rem, err = req2.UnmarshalBinary(rb); chk.E(err) {
			t.Fatal(err)
		}
		if len(rem) > 0 {
			t.Fatalf("unmarshal failed, remainder %d bytes", len(rem))
		}
		if req2.Serial != req.Serial {
			t.Fatalf("serial mismatch, got %d expected %d",
				req2.Serial, req.Serial)
		}
		if !req2.Record.Equal(req.Record) {
			t.Fatalf("record mismatch\ngot      %s\nexpected %s",
				req2.Record.IdString(), req.Record.IdString())
		}
		if rb2, err = req2.MarshalBinary(rb2); chk.E(err) {
			t.Fatal(err)
		}
		if !bytes.Equal(rb1, rb2) {
			t.Fatalf("unmarshal failed, different remarshal\n%0x\n%0x",
				rb1, rb2)
		}
		rb, rb1, rb2 = rb[:0], rb1[:0], rb2[:0]
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	var err error
	req := NewFrom(12345, genRecord())
	var rb []byte
	if rb, err = req.MarshalBinary(nil); chk.E(err) {
		t.Fatal(err)
	}
	var payload []byte
	if _, payload, err = envelopes.Identify(rb); chk.E(err) {
		t.Fatal(err)
	}
	for i := range len(payload) {
		if _, err = New().UnmarshalBinary(payload[:i]); err == nil {
			t.Fatalf("expected error unmarshaling %d of %d payload bytes",
				i, len(payload))
		}
	}
}
