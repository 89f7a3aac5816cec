// Package tag is an ordered list of byte fields attached to a record, with
// the varint framed binary form used on the wire and in the store.
package tag

import (
	"bytes"

	"encoding/binary"

	"golang.org/x/exp/constraints"

	"varly.lol/errorf"
	"varly.lol/varint"
)

// T is a list of byte fields with a literal ordering. Not a set, fields can
// repeat.
type T struct {
	field [][]byte
}

// New creates a tag from a variadic parameter that can be either string or
// byte slice.
func New[V string | []byte](fields ...V) (t *T) {
	t = &T{field: make([][]byte, len(fields))}
	for i, f := range fields {
		t.field[i] = []byte(f)
	}
	return
}

// NewWithCap creates a new empty tag with a pre-allocated capacity for some
// number of fields.
func NewWithCap[V constraints.Integer](c V) *T { return &T{make([][]byte, 0, c)} }

// S returns field i of the tag as a string, empty if out of range.
func (t *T) S(i int) (s string) {
	if t == nil || t.Len() <= i {
		return
	}
	return string(t.field[i])
}

// B returns field i of the tag as a byte slice, nil if out of range.
func (t *T) B(i int) (b []byte) {
	if t == nil || t.Len() <= i {
		return
	}
	return t.field[i]
}

// Len returns the number of fields in the tag.
func (t *T) Len() int {
	if t == nil {
		return 0
	}
	return len(t.field)
}

// Less returns whether field i sorts lexicographically before field j.
func (t *T) Less(i, j int) bool {
	if t == nil || i < 0 || j < 0 || i >= t.Len() || j >= t.Len() {
		return false
	}
	return bytes.Compare(t.field[i], t.field[j]) < 0
}

// Swap flips the position of two fields with each other.
func (t *T) Swap(i, j int) { t.field[i], t.field[j] = t.field[j], t.field[i] }

// Append adds fields to the end of the tag.
func (t *T) Append(b ...[]byte) {
	t.field = append(t.field, b...)
}

// Equal reports whether two tags have the same fields in the same order.
func (t *T) Equal(other *T) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i := range t.field {
		if !bytes.Equal(t.field[i], other.field[i]) {
			return false
		}
	}
	return true
}

// Clone makes a deep copy of the tag.
func (t *T) Clone() (c *T) {
	c = &T{field: make([][]byte, len(t.field))}
	for i := range t.field {
		c.field[i] = append([]byte{}, t.field[i]...)
	}
	return
}

// EstimateSize returns an upper bound on the marshalled length.
func (t *T) EstimateSize() (size int) {
	size = varint.MaxLen
	for i := range t.field {
		size += varint.MaxLen + len(t.field[i])
	}
	return
}

// MarshalBinary appends the wire form to dst, a field count varint and then
// each field as a length varint and its bytes.
func (t *T) MarshalBinary(dst []byte) (b []byte, err error) {
	b = dst
	b = binary.AppendUvarint(b, uint64(t.Len()))
	for i := range t.field {
		b = binary.AppendUvarint(b, uint64(len(t.field[i])))
		b = append(b, t.field[i]...)
	}
	return
}

// UnmarshalBinary reads the wire form from the front of b and returns what
// remains after it. The fields alias the input buffer.
func (t *T) UnmarshalBinary(b []byte) (r []byte, err error) {
	r = b
	var nf uint64
	var n int
	if nf, n, err = varint.Decode(r); err != nil {
		return
	}
	r = r[n:]
	// every field costs at least its length byte
	if nf > uint64(len(r)) {
		err = errorf.E("tag of %d fields in %d byte buffer", nf, len(r))
		return
	}
	t.field = make([][]byte, 0, nf)
	for range int(nf) {
		var l uint64
		if l, n, err = varint.Decode(r); err != nil {
			return
		}
		r = r[n:]
		if l > uint64(len(r)) {
			err = errorf.E("tag field of %d bytes in %d byte buffer", l, len(r))
			return
		}
		t.field = append(t.field, r[:l])
		r = r[l:]
	}
	return
}
