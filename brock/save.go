package brock

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"varly.lol/brock/keys/fullid"
	"varly.lol/brock/keys/idhash"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/store"
)

// SaveRecord appends a record to the log, unless a record with the same id
// is already stored or the id has been tombstoned by a delete.
func (r *T) SaveRecord(c context.T, rec *record.T) (err error) {
	// make sure Close waits for this to complete
	r.WG.Add(1)
	defer r.WG.Done()
	var found, deleted bool
	err = r.View(func(txn *badger.Txn) (err error) {
		// search by id so duplicates are never stored twice
		prf := prefixes.Id.Key(idhash.New(rec.Id))
		it := txn.NewIterator(badger.IteratorOptions{})
		defer it.Close()
		it.Seek(prf)
		if it.ValidForPrefix(prf) {
			found = true
			return
		}
		// a tombstoned id is refused forever
		ts := prefixes.Tombstone.Key(fullid.New(rec.Id))
		it.Seek(ts)
		if it.ValidForPrefix(ts) {
			deleted = true
		}
		return
	})
	if chk.E(err) {
		return
	}
	if deleted {
		err = errors.Wrap(store.ErrDupRecord, "id is tombstoned")
		return
	}
	if found {
		err = store.ErrDupRecord
		return
	}
	var bin []byte
	if bin, err = rec.Serialize(); chk.E(err) {
		return
	}
	// save the record and the keys needed to find it again
	if err = r.Update(func(txn *badger.Txn) (err error) {
		idx, ser := r.SerialKey()
		if err = txn.Set(idx, bin); chk.E(err) {
			return
		}
		for _, k := range GetIndexKeysForRecord(rec, ser) {
			if err = txn.Set(k, nil); chk.E(err) {
				return
			}
		}
		rec.Serial = ser.Uint64()
		return
	}); chk.E(err) {
		return
	}
	log.T.F("saved record %0x as %d to %s", rec.Id, rec.Serial, r.dataDir)
	return
}
