// Package timestamp is a UNIX timestamp of one second precision with the two
// wire forms the rest of the repository needs, 8 byte big endian for ordered
// index keys and varint for the record codec.
package timestamp

import (
	"encoding/binary"
	"strconv"
	"time"

	"varly.lol/varint"
)

// T is a convenience type for UNIX 64 bit timestamps of 1 second precision.
type T int64

func New() (t *T) {
	tt := T(0)
	return &tt
}

// Now returns the current UNIX timestamp of the current second.
func Now() *T {
	tt := T(time.Now().Unix())
	return &tt
}

// U64 returns the timestamp as a uint64.
func (t *T) U64() uint64 { return uint64(*t) }

// I64 returns the timestamp as an int64.
func (t *T) I64() int64 { return int64(*t) }

// Time converts the timestamp into a stdlib time.Time.
func (t *T) Time() time.Time { return time.Unix(int64(*t), 0) }

// Int returns the timestamp as an int.
func (t *T) Int() int { return int(*t) }

// Bytes returns the 8 byte big endian form used in ordered index keys.
func (t *T) Bytes() (b []byte) {
	b = make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(*t))
	return
}

// FromTime returns a T from a time.Time.
func FromTime(t time.Time) *T {
	tt := T(t.Unix())
	return &tt
}

// FromUnix converts from a standard int64 unix timestamp.
func FromUnix(t int64) *T {
	tt := T(t)
	return &tt
}

func (t *T) FromInt(i int) { *t = T(i) }

// FromBytes converts from the 8 byte big endian form.
func FromBytes(b []byte) *T {
	tt := T(binary.BigEndian.Uint64(b))
	return &tt
}

// FromVarint decodes a varint timestamp from the front of b and returns the
// remainder of the buffer after it.
func FromVarint(b []byte) (t *T, rem []byte, err error) {
	var v uint64
	var n int
	if v, n, err = varint.Decode(b); err != nil {
		return
	}
	tt := T(v)
	t = &tt
	rem = b[n:]
	return
}

// ToVarint appends the varint form of t to dst.
func ToVarint(dst []byte, t *T) []byte {
	return binary.AppendUvarint(dst, uint64(*t))
}

func (t *T) String() string { return strconv.FormatInt(int64(*t), 10) }
