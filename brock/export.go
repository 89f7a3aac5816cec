package brock

import (
	"encoding/binary"
	"io"

	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
)

// Export writes the whole log to w as a stream of length prefixed binary
// records, oldest first. The length prefix is a varint, so the stream is
// self describing and Import can consume it without any other framing.
func (r *T) Export(c context.T, w io.Writer) {
	var count int
	err := r.View(func(txn *badger.Txn) (err error) {
		prf := []byte{prefixes.Record.B()}
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         prf,
			PrefetchValues: true,
			PrefetchSize:   256,
		})
		defer it.Close()
		var buf []byte
		for it.Seek(prf); it.ValidForPrefix(prf); it.Next() {
			select {
			case <-r.Ctx.Done():
				return
			case <-c.Done():
				return
			default:
			}
			if err = it.Item().Value(func(val []byte) (err error) {
				buf = binary.AppendUvarint(buf[:0], uint64(len(val)))
				buf = append(buf, val...)
				_, err = w.Write(buf)
				return
			}); chk.E(err) {
				return
			}
			count++
		}
		return
	})
	chk.E(err)
	log.I.F("exported %d records from %s", count, r.dataDir)
}
