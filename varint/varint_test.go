package varint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
	"lukechampine.com/frand"

	"varly.lol/chk"
)

func TestDecodeVectors(t *testing.T) {
	vectors := []struct {
		enc []byte
		v   uint64
		n   int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x01}, 1, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0xff, 0x01}, 255, 2},
		{[]byte{0xac, 0x02}, 300, 2},
		{[]byte{0xff, 0x7f}, 16383, 2},
		{[]byte{0x80, 0x80, 0x01}, 16384, 3},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32, 5},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x10}, 1 << 32, 5},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 1 << 63, 10},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64, 10},
		// a trailing zero group is not minimal but still denotes the value
		{[]byte{0x80, 0x00}, 0, 2},
	}
	for _, vec := range vectors {
		v, n, err := Decode(vec.enc)
		if chk.E(err) {
			t.Fatalf("%x: %v", vec.enc, err)
		}
		if v != vec.v {
			t.Fatalf("%x: expected %d got %d", vec.enc, vec.v, v)
		}
		if n != vec.n {
			t.Fatalf("%x: expected %d consumed got %d", vec.enc, vec.n, n)
		}
		withTrailer := append(append([]byte{}, vec.enc...), 0xde, 0xad)
		if v, n, err = Decode(withTrailer); err != nil || v != vec.v || n != vec.n {
			t.Fatalf("%x: trailing data changed the result: %d %d %v",
				withTrailer, v, n, err)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	enc := make([]byte, 0, MaxLen)
	var buf [8]byte
	for range 1000000 {
		frand.Read(buf[:])
		val := binary.LittleEndian.Uint64(buf[:])
		enc = binary.AppendUvarint(enc[:0], val)
		v, n, err := Decode(enc)
		if chk.E(err) {
			t.Fatal(err)
		}
		if v != val {
			t.Fatalf("expected %d got %d", val, v)
		}
		if n != len(enc) {
			t.Fatalf("%d: expected %d consumed got %d", val, len(enc), n)
		}
	}
}

func TestDecodeGroupBoundaries(t *testing.T) {
	enc := make([]byte, 0, MaxLen)
	for g := uint(7); g < 64; g += 7 {
		for _, val := range []uint64{1<<g - 1, 1 << g} {
			enc = binary.AppendUvarint(enc[:0], val)
			v, n, err := Decode(enc)
			if chk.E(err) {
				t.Fatalf("%d: %v", val, err)
			}
			if v != val {
				t.Fatalf("expected %d got %d", val, v)
			}
			if n != len(enc) {
				t.Fatalf("%d: expected %d consumed got %d", val, len(enc), n)
			}
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	if v, n, err := Decode(nil); !errors.Is(err, ErrMalformed) || n != 0 || v != 0 {
		t.Fatalf("empty: got %d %d %v", v, n, err)
	}
	enc := make([]byte, 0, MaxLen)
	var buf [8]byte
	for range 100000 {
		frand.Read(buf[:])
		val := binary.LittleEndian.Uint64(buf[:])
		enc = binary.AppendUvarint(enc[:0], val)
		for k := range len(enc) {
			v, n, err := Decode(enc[:k])
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("%x: expected malformed got %v", enc[:k], err)
			}
			if n != k {
				t.Fatalf("%x: expected %d consumed got %d", enc[:k], k, n)
			}
			if v != 0 {
				t.Fatalf("%x: partial value leaked: %d", enc[:k], v)
			}
		}
	}
}

func TestDecodeLengthBound(t *testing.T) {
	for i := MaxLen + 1; i < 16; i++ {
		b := bytes.Repeat([]byte{0x80}, i)
		v, n, err := Decode(b)
		if !errors.Is(err, ErrLengthExceeded) {
			t.Fatalf("%d continuation bytes: expected length exceeded got %v", i, err)
		}
		if n != MaxLen {
			t.Fatalf("%d continuation bytes: expected %d consumed got %d", i, MaxLen, n)
		}
		if v != 0 {
			t.Fatalf("%d continuation bytes: partial value leaked: %d", i, v)
		}
	}
	// a terminal byte past the bound does not rescue the encoding
	b := append(bytes.Repeat([]byte{0x80}, MaxLen), 0x01)
	if _, n, err := Decode(b); !errors.Is(err, ErrLengthExceeded) || n != MaxLen {
		t.Fatalf("got %d %v", n, err)
	}
	// exactly ten continuation bytes and nothing after is a truncation
	v, n, err := Decode(bytes.Repeat([]byte{0x80}, MaxLen))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected malformed got %v", err)
	}
	if n != MaxLen || v != 0 {
		t.Fatalf("got %d %d", v, n)
	}
}

func TestDecodeOverflow(t *testing.T) {
	// the tenth byte may only carry bit 63
	base := bytes.Repeat([]byte{0x80}, 9)
	for c := byte(0x02); c < 0x80; c++ {
		b := append(append([]byte{}, base...), c)
		v, n, err := Decode(b)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%x: expected malformed got %v", b, err)
		}
		if n != MaxLen {
			t.Fatalf("%x: expected %d consumed got %d", b, MaxLen, n)
		}
		if v != 0 {
			t.Fatalf("%x: partial value leaked: %d", b, v)
		}
	}
	for _, c := range []byte{0x00, 0x01} {
		b := append(append([]byte{}, base...), c)
		v, n, err := Decode(b)
		if chk.E(err) {
			t.Fatal(err)
		}
		if v != uint64(c)<<63 || n != MaxLen {
			t.Fatalf("%x: got %d %d", b, v, n)
		}
	}
	b := append(bytes.Repeat([]byte{0xff}, 9), 0x7f)
	if _, _, err := Decode(b); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected malformed got %v", err)
	}
}

func TestDecodeProtowireOracle(t *testing.T) {
	enc := make([]byte, 0, MaxLen)
	var buf [8]byte
	for range 100000 {
		frand.Read(buf[:])
		val := binary.LittleEndian.Uint64(buf[:])
		enc = protowire.AppendVarint(enc[:0], val)
		v, n, err := Decode(enc)
		if chk.E(err) {
			t.Fatalf("%x: %v", enc, err)
		}
		w, wn := protowire.ConsumeVarint(enc)
		if wn < 0 {
			t.Fatal(protowire.ParseError(wn))
		}
		if v != w || n != wn {
			t.Fatalf("disagree with protowire on %x: %d/%d vs %d/%d",
				enc, v, n, w, wn)
		}
	}
}

func TestRead(t *testing.T) {
	enc := make([]byte, 0, MaxLen)
	var buf [8]byte
	for range 100000 {
		frand.Read(buf[:])
		val := binary.LittleEndian.Uint64(buf[:])
		enc = binary.AppendUvarint(enc[:0], val)
		v, n, err := Read(bytes.NewReader(enc))
		if chk.E(err) {
			t.Fatal(err)
		}
		if v != val || n != len(enc) {
			t.Fatalf("expected %d/%d got %d/%d", val, len(enc), v, n)
		}
	}
	vals := []uint64{0, 1, 127, 128, 300, math.MaxUint32, 1 << 63, math.MaxUint64}
	var stream []byte
	for _, v := range vals {
		stream = binary.AppendUvarint(stream, v)
	}
	r := bytes.NewReader(stream)
	for _, want := range vals {
		v, _, err := Read(r)
		if chk.E(err) {
			t.Fatal(err)
		}
		if v != want {
			t.Fatalf("expected %d got %d", want, v)
		}
	}
	if _, _, err := Read(r); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF got %v", err)
	}
	if v, n, err := Read(bytes.NewReader([]byte{0x80, 0x80})); !errors.Is(err,
		ErrMalformed) || n != 2 || v != 0 {
		t.Fatalf("got %d %d %v", v, n, err)
	}
	if _, n, err := Read(bytes.NewReader(bytes.Repeat([]byte{0x80},
		MaxLen))); !errors.Is(err, ErrLengthExceeded) || n != MaxLen {
		t.Fatalf("got %d %v", n, err)
	}
	// the bound stops the read before any eleventh byte
	r = bytes.NewReader(append(bytes.Repeat([]byte{0x80}, MaxLen), 0x01))
	if _, _, err := Read(r); !errors.Is(err, ErrLengthExceeded) {
		t.Fatalf("expected length exceeded got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("read past the bound, %d bytes left", r.Len())
	}
	if _, _, err := Read(bytes.NewReader(append(bytes.Repeat([]byte{0x80}, 9),
		0x02))); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected malformed got %v", err)
	}
}

func BenchmarkDecode(bb *testing.B) {
	const nTests = 10000
	encs := make([][]byte, nTests)
	var buf [8]byte
	for i := range nTests {
		frand.Read(buf[:])
		encs[i] = binary.AppendUvarint(nil, binary.LittleEndian.Uint64(buf[:]))
	}
	bb.Run("Decode", func(bb *testing.B) {
		bb.ReportAllocs()
		for i := 0; i < bb.N; i++ {
			_, _, _ = Decode(encs[i%nTests])
		}
	})
	bb.Run("StdlibUvarint", func(bb *testing.B) {
		bb.ReportAllocs()
		for i := 0; i < bb.N; i++ {
			_, _ = binary.Uvarint(encs[i%nTests])
		}
	})
}
