package record

import (
	"encoding/binary"

	"varly.lol/errorf"
)

var appendUvarint = binary.AppendUvarint

// EstimateSize returns a capacity the binary form of the record will not
// exceed, so the write buffer does not need a secondary allocation step.
func EstimateSize(rec *T) (size int) {
	size += IdLen
	size += binary.MaxVarintLen64
	size += binary.MaxVarintLen16
	size += rec.Tags.EstimateSize()
	size += binary.MaxVarintLen32
	size += len(rec.Content)
	return
}

// MarshalBinary appends the binary encoding of the record to dst.
//
// [ 32 bytes Id ]
// [ varint CreatedAt ]
// [ varint Kind ]
// [ varint Tags count ]
//
//	[ varint tag field count ]
//	  [ varint field length ]
//	  [ field data ]
//	...
//
// [ varint Content length ]
// [ Content ]
func (rec *T) MarshalBinary(dst []byte) (b []byte, err error) {
	b = dst
	if len(rec.Id) != IdLen {
		err = errorf.E("record id is %d bytes, must be %d", len(rec.Id), IdLen)
		return
	}
	b = append(b, rec.Id...)
	b = appendUvarint(b, rec.CreatedAt.U64())
	b = appendUvarint(b, rec.Kind.ToU64())
	if b, err = rec.Tags.MarshalBinary(b); err != nil {
		return
	}
	b = appendUvarint(b, uint64(len(rec.Content)))
	b = append(b, rec.Content...)
	return
}

// Serialize returns the binary form of the record in a fresh buffer sized by
// EstimateSize.
func (rec *T) Serialize() (b []byte, err error) {
	return rec.MarshalBinary(make([]byte, 0, EstimateSize(rec)))
}
