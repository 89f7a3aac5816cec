// Package record is the primary datatype of varly, a content addressed unit
// of storage whose binary form frames every variable length field with a
// varint.
package record

import (
	"bytes"
	"crypto/sha256"

	"varly.lol/chk"
	"varly.lol/hex"
	"varly.lol/kind"
	"varly.lol/tags"
	"varly.lol/timestamp"
)

// IdLen is the length of a record id, the SHA256 hash of the canonical form.
const IdLen = sha256.Size

// T is the unit of storage and transmission in varly.
type T struct {
	// Id is the SHA256 hash of the canonical binary encoding of the rest of
	// the fields.
	Id []byte
	// CreatedAt is the UNIX timestamp the record was made at, according to
	// its creator (never trust a timestamp!).
	CreatedAt *timestamp.T
	// Kind selects how the content is to be interpreted. See kind.T.
	Kind *kind.T
	// Tags annotate the record with byte fields.
	Tags *tags.T
	// Content is the payload.
	Content []byte
	// Serial is the position in the log, stamped by storage when the record
	// is saved or fetched. It is not part of the binary form or the id
	// preimage, and is zero on records that never touched a store.
	Serial uint64
}

// Ts is an array of T that sorts in reverse chronological order.
type Ts []*T

func (rs Ts) Len() int           { return len(rs) }
func (rs Ts) Less(i, j int) bool { return rs[i].CreatedAt.I64() > rs[j].CreatedAt.I64() }
func (rs Ts) Swap(i, j int)      { rs[i], rs[j] = rs[j], rs[i] }

// C is a channel of records.
type C chan *T

func New() (rec *T) { return &T{} }

// NewFrom assembles a record from its parts, fills in defaults for the ones
// left nil, and stamps the Id.
func NewFrom(createdAt *timestamp.T, k *kind.T, tgs *tags.T,
	content []byte) (rec *T) {
	if createdAt == nil {
		createdAt = timestamp.Now()
	}
	if k == nil {
		k = kind.Data
	}
	if tgs == nil {
		tgs = tags.NewWithCap(0)
	}
	rec = &T{CreatedAt: createdAt, Kind: k, Tags: tgs, Content: content}
	rec.GenerateId()
	return
}

// Hash is the digest records are addressed by.
func Hash(in []byte) (out []byte) {
	h := sha256.Sum256(in)
	return h[:]
}

// Equal reports whether two records carry the same fields.
func (rec *T) Equal(other *T) bool {
	return bytes.Equal(rec.Id, other.Id) &&
		rec.CreatedAt.I64() == other.CreatedAt.I64() &&
		rec.Kind.Equal(other.Kind) &&
		rec.Tags.Equal(other.Tags) &&
		bytes.Equal(rec.Content, other.Content)
}

// stringy/numbery accessors for the JSON facing form

func (rec *T) IdString() (s string)      { return hex.Enc(rec.Id) }
func (rec *T) CreatedAtInt64() (i int64) { return rec.CreatedAt.I64() }
func (rec *T) KindU16() (k uint16)       { return rec.Kind.ToU16() }
func (rec *T) ContentString() (s string) { return string(rec.Content) }

// J is the JSON facing form of a record, used on the HTTP API.
type J struct {
	Id        string     `json:"id"`
	CreatedAt int64      `json:"created_at"`
	Kind      uint16     `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
}

// ToRecordJ converts a record to its JSON facing form.
func (rec *T) ToRecordJ() (j *J) {
	j = &J{}
	j.Id = rec.IdString()
	j.CreatedAt = rec.CreatedAtInt64()
	j.Kind = rec.KindU16()
	j.Tags = rec.Tags.ToStringSlice()
	j.Content = rec.ContentString()
	return
}

// ToRecord converts the JSON facing form to the native form.
func (j *J) ToRecord() (rec *T, err error) {
	rec = &T{}
	if rec.Id, err = hex.Dec(j.Id); chk.E(err) {
		return
	}
	rec.CreatedAt = timestamp.FromUnix(j.CreatedAt)
	rec.Kind = kind.New(j.Kind)
	rec.Tags = tags.FromStringSlice(j.Tags...)
	rec.Content = []byte(j.Content)
	return
}
