package record

import (
	"bytes"
)

// GetIdBytes returns the canonical form the Id is computed over, the binary
// encoding of every field except the Id itself.
func (rec *T) GetIdBytes() (b []byte) {
	b = make([]byte, 0, EstimateSize(rec)-IdLen)
	b = appendUvarint(b, rec.CreatedAt.U64())
	b = appendUvarint(b, rec.Kind.ToU64())
	b, _ = rec.Tags.MarshalBinary(b)
	b = appendUvarint(b, uint64(len(rec.Content)))
	b = append(b, rec.Content...)
	return
}

// GenerateId computes the canonical hash of the record and sets it as the Id.
func (rec *T) GenerateId() {
	rec.Id = Hash(rec.GetIdBytes())
}

// CheckId reports whether the Id matches the canonical form of the record.
func (rec *T) CheckId() bool {
	return bytes.Equal(rec.Id, Hash(rec.GetIdBytes()))
}
