package tags

import (
	"testing"

	"lukechampine.com/frand"

	"varly.lol/chk"
	"varly.lol/tag"
)

func TestMarshalBinaryUnmarshalBinary(t *testing.T) {
	var b []byte
	var err error
	for range 1000 {
		nt := frand.Intn(6)
		tgs := NewWithCap(nt)
		for range nt {
			nf := frand.Intn(5)
			tg := tag.NewWithCap(nf)
			for range nf {
				f := make([]byte, frand.Intn(16))
				frand.Read(f)
				tg.Append(f)
			}
			tgs.Append(tg)
		}
		if b, err = tgs.MarshalBinary(b[:0]); chk.E(err) {
			t.Fatal(err)
		}
		tgs2 := &T{}
		var rem []byte
		if rem, err = tgs2.UnmarshalBinary(b); chk.E(err) {
			t.Fatal(err)
		}
		if len(rem) != 0 {
			t.Fatalf("len(rem)!=0: %x", rem)
		}
		if !tgs.Equal(tgs2) {
			t.Fatal("tag lists differ after round trip")
		}
	}
}

func TestUnmarshalBinaryGarbage(t *testing.T) {
	// a count that promises more tags than the buffer can hold
	if _, err := new(T).UnmarshalBinary([]byte{0xff, 0xff, 0x01, 0x00}); err == nil {
		t.Fatal("oversize count unmarshalled")
	}
	// a field length running off the end
	if _, err := new(T).UnmarshalBinary([]byte{0x01, 0x01, 0x20, 0x00}); err == nil {
		t.Fatal("oversize field unmarshalled")
	}
}
