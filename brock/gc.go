package brock

import (
	"time"

	"github.com/dgraph-io/badger/v4"

	"varly.lol/brock/keys/serial"
	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/units"
)

// GarbageCollector starts up a ticker that runs a check on space utilisation
// and when it exceeds the high water mark, prunes the oldest records back to
// the low water mark.
//
// This function should be invoked as a goroutine, and will terminate when
// the backend context is canceled.
func (r *T) GarbageCollector() {
	log.D.F("starting brock garbage collector,"+
		" max size %0.3fGb,"+
		" high water %0.3fGb,"+
		" low water %0.3fGb,"+
		" GC check frequency %v, %s",
		float32(r.DBSizeLimit)/float32(units.Gb),
		float32(r.DBHighWater*r.DBSizeLimit/100)/float32(units.Gb),
		float32(r.DBLowWater*r.DBSizeLimit/100)/float32(units.Gb),
		r.GCFrequency,
		r.Path(),
	)
	var err error
	if err = r.GCRun(); chk.E(err) {
	}
	gcTicker := time.NewTicker(r.GCFrequency)
	syncTicker := time.NewTicker(r.GCFrequency * 10)
out:
	for {
		select {
		case <-r.Ctx.Done():
			log.W.Ln("stopping record log GC ticker")
			gcTicker.Stop()
			syncTicker.Stop()
			break out
		case <-gcTicker.C:
			if err = r.GCRun(); chk.E(err) {
			}
		case <-syncTicker.C:
			chk.E(r.DB.Sync())
		}
	}
	log.I.Ln("closing brock record log garbage collector")
}

// GCRun checks utilisation and prunes when the high water mark is breached.
func (r *T) GCRun() (err error) {
	log.T.Ln("running GC check", r.Path())
	lsm, vlog := r.DB.Size()
	size := lsm + vlog
	high := int64(r.DBHighWater * r.DBSizeLimit / 100)
	low := int64(r.DBLowWater * r.DBSizeLimit / 100)
	log.T.F("GC check: %d bytes used, high water %d, %s", size, high,
		r.dataDir)
	if size < high {
		return
	}
	var serials []uint64
	if serials, err = r.GCMark(size - low); chk.E(err) {
		return
	}
	if len(serials) < 1 {
		return
	}
	if err = r.GCSweep(serials); chk.E(err) {
		return
	}
	return
}

// GCMark walks the time index oldest first, collecting record serials until
// pruning them would free the target number of bytes.
func (r *T) GCMark(toFree int64) (serials []uint64, err error) {
	err = r.View(func(txn *badger.Txn) (err error) {
		prf := []byte{prefixes.CreatedAt.B()}
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prf})
		defer it.Close()
		var freed int64
		for it.Seek(prf); it.ValidForPrefix(prf); it.Next() {
			ser := serial.FromKey(it.Item().KeyCopy(nil))
			var item *badger.Item
			if item, err = txn.Get(prefixes.Record.Key(ser)); err != nil {
				// an index key with no record frees nothing but should
				// still be swept
				err = nil
				serials = append(serials, ser.Uint64())
				continue
			}
			freed += item.EstimatedSize()
			serials = append(serials, ser.Uint64())
			if freed >= toFree {
				return
			}
		}
		return
	})
	return
}

// GCSweep removes the marked records along with their index entries.
func (r *T) GCSweep(serials []uint64) (err error) {
	log.I.F("GC pruning %d records from %s", len(serials), r.dataDir)
	for _, s := range serials {
		var rec *record.T
		ser := serial.FromUint64(s)
		if rec, err = r.FetchBySerial(r.Ctx, s); err != nil {
			// the record is already gone, just drop the stale index keys
			err = r.Update(func(txn *badger.Txn) (err error) {
				return sweepIndexKeys(txn, ser)
			})
			chk.E(err)
			continue
		}
		if err = r.Update(func(txn *badger.Txn) (err error) {
			if err = txn.Delete(prefixes.Record.Key(ser)); chk.E(err) {
				return
			}
			for _, k := range GetIndexKeysForRecord(rec, ser) {
				if err = txn.Delete(k); chk.E(err) {
					return
				}
			}
			return
		}); chk.E(err) {
			return
		}
	}
	chk.T(r.DB.RunValueLogGC(0.5))
	return
}

// sweepIndexKeys scans the index tables for keys ending in the serial and
// deletes them, the slow path for when the record they point to is missing.
func sweepIndexKeys(txn *badger.Txn, ser *serial.T) (err error) {
	for _, prf := range [][]byte{
		{prefixes.CreatedAt.B()},
		{prefixes.Id.B()},
		{prefixes.Kind.B()},
	} {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prf})
		for it.Seek(prf); it.ValidForPrefix(prf); it.Next() {
			key := it.Item().KeyCopy(nil)
			if serial.FromKey(key).Uint64() == ser.Uint64() {
				if err = txn.Delete(key); chk.E(err) {
					it.Close()
					return
				}
			}
		}
		it.Close()
	}
	return
}
