package brock

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"varly.lol/brock/keys/idhash"
	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/record"
	"varly.lol/store"
)

// FetchBySerial returns the record stored at the given position in the log,
// or store.ErrNotFound.
func (r *T) FetchBySerial(c context.T, ser uint64) (rec *record.T, err error) {
	key := prefixes.Record.Key(serial.FromUint64(ser))
	err = r.View(func(txn *badger.Txn) (err error) {
		var item *badger.Item
		if item, err = txn.Get(key); err != nil {
			return
		}
		var bin []byte
		if bin, err = item.ValueCopy(nil); chk.E(err) {
			return
		}
		rec = &record.T{}
		if _, err = rec.UnmarshalBinary(bin); chk.E(err) {
			rec = nil
			return
		}
		rec.Serial = ser
		return
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		err = store.ErrNotFound
	}
	return
}

// FetchById resolves an id through the id index and returns the record, or
// store.ErrNotFound.
func (r *T) FetchById(c context.T, id []byte) (rec *record.T, err error) {
	var ser *serial.T
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
	if ser == nil {
		err = store.ErrNotFound
		return
	}
	return r.FetchBySerial(c, ser.Uint64())
}
