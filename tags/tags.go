// Package tags is the list of tags carried by a record, with the varint
// framed binary form used on the wire and in the store.
package tags

import (
	"encoding/binary"

	"varly.lol/errorf"
	"varly.lol/tag"
	"varly.lol/varint"
)

// T is a list of tag.T, lists of byte fields with ordering and no uniqueness
// constraint (not a set).
type T struct {
	t []*tag.T
}

func New(fields ...*tag.T) (t *T) {
	t = &T{}
	for _, field := range fields {
		t.t = append(t.t, field)
	}
	return
}

func NewWithCap(c int) (t *T) {
	return &T{t: make([]*tag.T, 0, c)}
}

// F returns the tag list itself.
func (t *T) F() (tt []*tag.T) {
	if t == nil {
		return
	}
	return t.t
}

// N returns the tag at position i, an empty tag if out of range.
func (t *T) N(i int) (tt *tag.T) {
	if t == nil || len(t.t) <= i {
		return tag.NewWithCap(0)
	}
	return t.t[i]
}

// Len returns the number of tags in the list.
func (t *T) Len() int {
	if t == nil {
		return 0
	}
	return len(t.t)
}

// Append adds tags to the end of the list.
func (t *T) Append(ttt ...*tag.T) {
	t.t = append(t.t, ttt...)
}

// Equal reports whether two tag lists carry the same tags in the same order.
func (t *T) Equal(other *T) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i := range t.t {
		if !t.t[i].Equal(other.t[i]) {
			return false
		}
	}
	return true
}

// Clone makes a deep copy of the tag list.
func (t *T) Clone() (c *T) {
	c = &T{t: make([]*tag.T, len(t.t))}
	for i := range t.t {
		c.t[i] = t.t[i].Clone()
	}
	return
}

// ToStringSlice renders the tag list as a slice of slices of strings.
func (t *T) ToStringSlice() (s [][]string) {
	s = make([][]string, 0, t.Len())
	for i := range t.t {
		fields := make([]string, 0, t.t[i].Len())
		for j := range t.t[i].Len() {
			fields = append(fields, t.t[i].S(j))
		}
		s = append(s, fields)
	}
	return
}

// FromStringSlice builds a tag list from a slice of slices of strings.
func FromStringSlice(s ...[]string) (t *T) {
	t = NewWithCap(len(s))
	for _, fields := range s {
		t.Append(tag.New(fields...))
	}
	return
}

// EstimateSize returns an upper bound on the marshalled length.
func (t *T) EstimateSize() (size int) {
	size = varint.MaxLen
	for i := range t.t {
		size += t.t[i].EstimateSize()
	}
	return
}

// MarshalBinary appends the wire form to dst, a tag count varint and then
// each tag in its own binary form.
func (t *T) MarshalBinary(dst []byte) (b []byte, err error) {
	b = dst
	b = binary.AppendUvarint(b, uint64(t.Len()))
	for i := range t.t {
		if b, err = t.t[i].MarshalBinary(b); err != nil {
			return
		}
	}
	return
}

// UnmarshalBinary reads the wire form from the front of b and returns what
// remains after it. The tag fields alias the input buffer.
func (t *T) UnmarshalBinary(b []byte) (r []byte, err error) {
	r = b
	var nt uint64
	var n int
	if nt, n, err = varint.Decode(r); err != nil {
		return
	}
	r = r[n:]
	// every tag costs at least its field count byte
	if nt > uint64(len(r)) {
		err = errorf.E("tag list of %d tags in %d byte buffer", nt, len(r))
		return
	}
	t.t = make([]*tag.T, 0, nt)
	for range int(nt) {
		tt := &tag.T{}
		if r, err = tt.UnmarshalBinary(r); err != nil {
			return
		}
		t.t = append(t.t, tt)
	}
	return
}
