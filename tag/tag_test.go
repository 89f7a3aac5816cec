package tag

import (
	"testing"

	"lukechampine.com/frand"

	"varly.lol/chk"
)

func TestMarshalBinaryUnmarshalBinary(t *testing.T) {
	var b []byte
	var err error
	for range 1000 {
		n := frand.Intn(8)
		tg := NewWithCap(n)
		for range n {
			f := make([]byte, frand.Intn(24))
			frand.Read(f)
			tg.Append(f)
		}
		if b, err = tg.MarshalBinary(b[:0]); chk.E(err) {
			t.Fatal(err)
		}
		tg2 := &T{}
		var rem []byte
		if rem, err = tg2.UnmarshalBinary(b); chk.E(err) {
			t.Fatal(err)
		}
		if len(rem) != 0 {
			t.Fatalf("len(rem)!=0: %x", rem)
		}
		if !tg.Equal(tg2) {
			t.Fatalf("got %v want %v", tg2, tg)
		}
	}
}

func TestMarshalBinaryZeroLengthTag(t *testing.T) {
	tg := NewWithCap(0)
	b, err := tg.MarshalBinary(nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	tg2 := &T{}
	rem, err := tg2.UnmarshalBinary(b)
	if chk.E(err) {
		t.Fatal(err)
	}
	if len(rem) != 0 || tg2.Len() != 0 {
		t.Fatalf("got %d fields, %d remaining", tg2.Len(), len(rem))
	}
}

func TestUnmarshalBinaryTruncated(t *testing.T) {
	tg := New("key", "value", "a somewhat longer third field")
	b, err := tg.MarshalBinary(nil)
	if chk.E(err) {
		t.Fatal(err)
	}
	for k := range len(b) - 1 {
		if _, err = new(T).UnmarshalBinary(b[:k]); err == nil {
			t.Fatalf("%d byte prefix of %d unmarshalled", k, len(b))
		}
	}
}
