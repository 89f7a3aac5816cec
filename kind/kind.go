// Package kind is the record type discriminator. Four kinds are defined for
// the built in machinery, anything above Checkpoint is application defined
// and passes through the store and the wire untouched.
package kind

import (
	"encoding/binary"
	"math"
	"strconv"

	"golang.org/x/exp/constraints"

	"varly.lol/errorf"
	"varly.lol/varint"
)

// T is the record kind, the field that selects how a record's content is to
// be interpreted. On the wire it is a varint, in index keys 2 bytes big
// endian.
type T struct {
	K uint16
}

func New[V constraints.Integer](k V) (ki *T) { return &T{uint16(k)} }

var (
	// Data is the general payload carrying record.
	Data = New(0)
	// Tombstone marks a previously stored record as deleted, its content is
	// the 32 byte id of the record it buries.
	Tombstone = New(1)
	// Config carries service configuration updates.
	Config = New(2)
	// Checkpoint marks a consistent cut of the log for export tooling.
	Checkpoint = New(3)
)

var names = map[uint16]string{
	0: "data",
	1: "tombstone",
	2: "config",
	3: "checkpoint",
}

func (k *T) ToInt() int {
	if k == nil {
		return 0
	}
	return int(k.K)
}

func (k *T) ToU16() uint16 {
	if k == nil {
		return 0
	}
	return k.K
}

func (k *T) ToU64() uint64 {
	if k == nil {
		return 0
	}
	return uint64(k.K)
}

// Name returns the name of a built in kind, or the decimal form for
// application defined ones.
func (k *T) Name() string {
	if n, ok := names[k.K]; ok {
		return n
	}
	return strconv.Itoa(int(k.K))
}

func (k *T) Equal(k2 *T) bool { return k.K == k2.K }

// Bytes returns the 2 byte big endian form used in index keys.
func (k *T) Bytes() (b []byte) {
	b = make([]byte, 2)
	binary.BigEndian.PutUint16(b, k.K)
	return
}

// ToVarint appends the varint form of k to dst.
func ToVarint(dst []byte, k *T) []byte {
	return binary.AppendUvarint(dst, uint64(k.K))
}

// FromVarint decodes a varint kind from the front of b and returns the
// remainder of the buffer after it.
func FromVarint(b []byte) (k *T, rem []byte, err error) {
	var v uint64
	var n int
	if v, n, err = varint.Decode(b); err != nil {
		return
	}
	if v > math.MaxUint16 {
		err = errorf.E("kind %d out of range", v)
		return
	}
	k = New(v)
	rem = b[n:]
	return
}
