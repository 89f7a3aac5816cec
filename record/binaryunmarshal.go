package record

import (
	"io"

	"github.com/pkg/errors"

	"varly.lol/kind"
	"varly.lol/tags"
	"varly.lol/timestamp"
	"varly.lol/varint"
)

// Reader is a cursor over a borrowed buffer holding one or more binary
// records. Each read advances the cursor to the next field. Byte fields
// taken from it alias the buffer, so the buffer cannot be recycled until the
// records read from it fall out of scope.
type Reader struct {
	Pos int
	Buf []byte
}

// NewReadBuffer returns a cursor over the provided slice.
func NewReadBuffer(b []byte) (r *Reader) { return &Reader{Buf: b} }

// Remaining returns how many bytes are left past the cursor.
func (r *Reader) Remaining() int { return len(r.Buf) - r.Pos }

func (r *Reader) ReadId() (id []byte, err error) {
	end := r.Pos + IdLen
	if len(r.Buf) < end {
		err = errors.Wrap(io.ErrUnexpectedEOF, "id")
		return
	}
	id = r.Buf[r.Pos:end]
	r.Pos = end
	return
}

func (r *Reader) ReadCreatedAt() (t *timestamp.T, err error) {
	var rem []byte
	if t, rem, err = timestamp.FromVarint(r.Buf[r.Pos:]); err != nil {
		err = errors.Wrap(err, "created at")
		return
	}
	r.Pos = len(r.Buf) - len(rem)
	return
}

func (r *Reader) ReadKind() (k *kind.T, err error) {
	var rem []byte
	if k, rem, err = kind.FromVarint(r.Buf[r.Pos:]); err != nil {
		err = errors.Wrap(err, "kind")
		return
	}
	r.Pos = len(r.Buf) - len(rem)
	return
}

func (r *Reader) ReadTags() (t *tags.T, err error) {
	t = &tags.T{}
	var rem []byte
	if rem, err = t.UnmarshalBinary(r.Buf[r.Pos:]); err != nil {
		err = errors.Wrap(err, "tags")
		return
	}
	r.Pos = len(r.Buf) - len(rem)
	return
}

func (r *Reader) ReadContent() (content []byte, err error) {
	var l uint64
	var n int
	if l, n, err = varint.Decode(r.Buf[r.Pos:]); err != nil {
		err = errors.Wrap(err, "content length")
		return
	}
	r.Pos += n
	if l > uint64(r.Remaining()) {
		err = errors.Errorf("content of %d bytes in %d byte buffer",
			l, r.Remaining())
		return
	}
	end := r.Pos + int(l)
	content = r.Buf[r.Pos:end]
	r.Pos = end
	return
}

// ReadRecord reads one complete record starting at the cursor.
func (r *Reader) ReadRecord() (rec *T, err error) {
	rec = &T{}
	if rec.Id, err = r.ReadId(); err != nil {
		return
	}
	if rec.CreatedAt, err = r.ReadCreatedAt(); err != nil {
		return
	}
	if rec.Kind, err = r.ReadKind(); err != nil {
		return
	}
	if rec.Tags, err = r.ReadTags(); err != nil {
		return
	}
	if rec.Content, err = r.ReadContent(); err != nil {
		return
	}
	return
}

// UnmarshalBinary reads the binary form from the front of b and returns what
// remains after it. Byte fields alias the input buffer.
func (rec *T) UnmarshalBinary(b []byte) (rem []byte, err error) {
	r := NewReadBuffer(b)
	var out *T
	if out, err = r.ReadRecord(); err != nil {
		return
	}
	*rec = *out
	rem = r.Buf[r.Pos:]
	return
}
