package brock

import (
	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/keys/createdat"
	"varly.lol/brock/keys/serial"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/store"
)

// CountRecords counts the records in the range by walking index keys without
// fetching any values. Serials seen in more than one scan dedupe through the
// set, so the count is not approximate, the flag is for backends that
// estimate.
func (r *T) CountRecords(c context.T, q *store.Range) (count int, approx bool,
	err error) {
	scans, since := prepareScans(q)
	seen := make(map[uint64]struct{})
	for _, sc := range scans {
		select {
		case <-r.Ctx.Done():
			return
		case <-c.Done():
			return
		default:
		}
		err = r.View(func(txn *badger.Txn) (err error) {
			it := txn.NewIterator(badger.IteratorOptions{Reverse: true})
			defer it.Close()
			for it.Seek(sc.start); it.ValidForPrefix(sc.prefix); it.Next() {
				key := it.Item().KeyCopy(nil)
				if createdat.FromKey(key).Val.U64() < since {
					break
				}
				seen[serial.FromKey(key).Uint64()] = struct{}{}
			}
			return
		})
		if chk.E(err) {
			return
		}
	}
	count = len(seen)
	return
}
