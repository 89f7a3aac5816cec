package brock

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/errorf"
	"varly.lol/log"
	"varly.lol/units"
)

// Version is the current schema version of the key tables. A database found
// at an older version with records in it refuses to open, because the keys
// cannot be trusted to mean what the current code thinks they mean.
const Version = 1

// Init opens the database at the given path, starts the serial sequence,
// runs migrations and, if a size limit is configured, starts the garbage
// collector.
func (r *T) Init(path string) (err error) {
	r.dataDir = path
	log.I.Ln("opening brock record log at", r.Path())
	opts := badger.DefaultOptions(r.dataDir)
	opts.BlockCacheSize = int64(r.BlockCacheSize)
	opts.BlockSize = units.Mb
	opts.CompactL0OnClose = true
	opts.LmaxCompaction = true
	opts.Compression = options.None
	r.Logger = NewLogger(r.InitLogLevel, r.dataDir)
	opts.Logger = r.Logger
	if r.DB, err = badger.Open(opts); chk.E(err) {
		return err
	}
	log.T.Ln("getting serial sequence", r.dataDir)
	if r.seq, err = r.DB.GetSequence([]byte("records"), 1000); chk.E(err) {
		return err
	}
	log.T.Ln("running migrations", r.dataDir)
	if err = r.runMigrations(); chk.E(err) {
		return log.E.Err("error running migrations: %w; %s", err, r.dataDir)
	}
	if r.DBSizeLimit > 0 {
		go r.GarbageCollector()
	}
	return nil
}

func (r *T) runMigrations() (err error) {
	return r.Update(func(txn *badger.Txn) (err error) {
		var version uint16
		var item *badger.Item
		item, err = txn.Get([]byte{prefixes.Version.B()})
		if errors.Is(err, badger.ErrKeyNotFound) {
			version = 0
		} else if chk.E(err) {
			return err
		} else {
			chk.E(item.Value(func(val []byte) (err error) {
				version = binary.BigEndian.Uint16(val)
				return
			}))
		}
		if version < Version {
			// an empty database can just be stamped with the current
			// version, one with records in an old layout cannot be fixed up
			// in place
			prf := []byte{prefixes.Record.B()}
			it := txn.NewIterator(badger.IteratorOptions{Prefix: prf})
			var hasRecords bool
			it.Seek(prf)
			if it.ValidForPrefix(prf) {
				hasRecords = true
			}
			it.Close()
			if hasRecords {
				return errorf.E("database at %s is schema version %d,"+
					" current is %d: export with the old version, delete"+
					" the database files and import", r.dataDir, version,
					Version)
			}
			if err = r.bumpVersion(txn, Version); chk.E(err) {
				return err
			}
		}
		return nil
	})
}

func (r *T) bumpVersion(txn *badger.Txn, version uint16) (err error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, version)
	return txn.Set([]byte{prefixes.Version.B()}, buf)
}
