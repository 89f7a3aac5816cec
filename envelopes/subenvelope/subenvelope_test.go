package subenvelope

import (
	"bytes"
	"testing"

	"lukechampine.com/frand"

	"varly.lol/chk"
	"varly.lol/envelopes"
	"varly.lol/kind"
	"varly.lol/timestamp"
)

func TestMarshalUnmarshal(t *testing.T) {
	var err error
	rb, rb1, rb2 := make([]byte, 0, 65535), make([]byte, 0, 65535),
		make([]byte, 0, 65535)
	for range 1000 {
		kinds := make([]*kind.T, frand.Intn(6))
		for i := range kinds {
			kinds[i] = kind.New(frand.Intn(65536))
		}
		req := NewFrom(timestamp.FromUnix(int64(frand.Uint64n(1<<40))),
			kinds...)
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
		if req2.Since.I64() != req.Since.I64() {
			t.Fatalf("since mismatch, got %d expected %d",
				req2.Since.I64(), req.Since.I64())
		}
		if len(req2.Kinds) != len(req.Kinds) {
			t.Fatalf("kind count mismatch, got %d expected %d",
				len(req2.Kinds), len(req.Kinds))
		}
		for i := range req.Kinds {
			if !req.Kinds[i].Equal(req2.Kinds[i]) {
				t.Fatalf("kind %d mismatch, got %d expected %d",
					i, req2.Kinds[i].K, req.Kinds[i].K)
			}
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
	req := NewFrom(timestamp.Now(), kind.New(1), kind.New(300))
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
