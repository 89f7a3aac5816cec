package brock

import (
	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/keys/createdat"
	"varly.lol/brock/keys/fullid"
	"varly.lol/brock/keys/idhash"
	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/timestamp"
)

// DeleteRecord removes a record and its index entries from the log, and
// writes a tombstone so the id is refused if it is offered again. Pass a
// true to noTombstone to skip the tombstone, allowing the id to return.
func (r *T) DeleteRecord(c context.T, id []byte, noTombstone ...bool) (err error) {
	r.WG.Add(1)
	defer r.WG.Done()
	tombstone := true
	if len(noTombstone) > 0 && noTombstone[0] {
		tombstone = false
	}
	var rec *record.T
	var ser *serial.T
	if rec, err = r.FetchById(c, id); err != nil {
		if err != store.ErrNotFound {
			return
		}
		// without a record there is still a tombstone to write
		err = nil
	} else {
		if err = r.View(func(txn *badger.Txn) (err error) {
			prf := prefixes.Id.Key(idhash.New(id))
			it := txn.NewIterator(badger.IteratorOptions{})
			defer it.Close()
			it.Seek(prf)
			if it.ValidForPrefix(prf) {
				ser = serial.FromKey(it.Item().Key())
			}
			return
		}); chk.E(err) {
			return
		}
	}
	err = r.Update(func(txn *badger.Txn) (err error) {
		if tombstone {
			ts := prefixes.Tombstone.Key(fullid.New(id),
				createdat.New(timestamp.Now()))
			if err = txn.Set(ts, nil); chk.E(err) {
				return
			}
		}
		if rec == nil || ser == nil {
			return
		}
		if err = txn.Delete(prefixes.Record.Key(ser)); chk.E(err) {
			return
		}
		for _, k := range GetIndexKeysForRecord(rec, ser) {
			if err = txn.Delete(k); chk.E(err) {
				return
			}
		}
		return
	})
	if chk.E(err) {
		return
	}
	log.D.F("deleted record %0x from %s", id, r.dataDir)
	return
}
