package brock

import (
	"bytes"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/keys/createdat"
	"varly.lol/brock/keys/kinder"
	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/record"
	"varly.lol/store"
)

// scan is one reverse iteration over an index: start is where the iterator
// seeks to, prefix is where it stops being relevant.
type scan struct {
	prefix []byte
	start  []byte
}

// prepareScans renders a store.Range into the index scans that cover it. A
// range with kinds walks the kind by time index once per kind, anything else
// walks the time index.
func prepareScans(q *store.Range) (scans []scan, since uint64) {
	ub := bytes.Repeat([]byte{0xff}, createdat.Len)
	if q != nil {
		if q.Since != nil {
			since = q.Since.U64()
		}
		if q.Until != nil {
			ub = q.Until.Bytes()
		}
	}
	// the serial pad puts the seek position after every key sharing the
	// until timestamp, so the reverse iteration includes all of them
	pad := bytes.Repeat([]byte{0xff}, serial.Len)
	if q != nil && len(q.Kinds) > 0 {
		for _, k := range q.Kinds {
			prefix := append([]byte{prefixes.Kind.B()}, kinder.Make(k)...)
			start := append(append(append(
				make([]byte, 0, len(prefix)+len(ub)+len(pad)),
				prefix...), ub...), pad...)
			scans = append(scans, scan{prefix: prefix, start: start})
		}
		return
	}
	prefix := []byte{prefixes.CreatedAt.B()}
	start := append(append(append(
		make([]byte, 0, len(prefix)+len(ub)+len(pad)),
		prefix...), ub...), pad...)
	scans = append(scans, scan{prefix: prefix, start: start})
	return
}

// QueryRecords returns the records in the range, newest first, by walking
// the relevant index backwards from the until timestamp.
func (r *T) QueryRecords(c context.T, q *store.Range) (recs record.Ts, err error) {
	limit := r.MaxLimit
	if q != nil && q.Limit > 0 && int(q.Limit) < limit {
		limit = int(q.Limit)
	}
	scans, since := prepareScans(q)
	serials := make(map[uint64]struct{})
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
			var count int
			for it.Seek(sc.start); it.ValidForPrefix(sc.prefix); it.Next() {
				key := it.Item().KeyCopy(nil)
				if createdat.FromKey(key).Val.U64() < since {
					break
				}
				serials[serial.FromKey(key).Uint64()] = struct{}{}
				count++
				if count >= limit {
					break
				}
			}
			return
		})
		if chk.E(err) {
			return
		}
	}
	for ser := range serials {
		var rec *record.T
		if rec, err = r.FetchBySerial(c, ser); err != nil {
			// an index key outliving its record is not fatal to the query
			err = nil
			continue
		}
		if q.Matches(rec) {
			recs = append(recs, rec)
		}
	}
	sort.Sort(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return
}
