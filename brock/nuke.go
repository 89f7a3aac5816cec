package brock

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"varly.lol/brock/prefixes"
	"varly.lol/chk"
	"varly.lol/log"
)

// Nuke drops all the record and index tables, leaving an empty database.
func (r *T) Nuke() (err error) {
	log.W.F("nuking database at %s", r.dataDir)
	if err = r.DB.DropPrefix(prefixes.AllPrefixes...); chk.E(err) {
		return
	}
	if err = r.DB.RunValueLogGC(0.8); err != nil {
		// there not being anything to collect is not a failure
		if errors.Is(err, badger.ErrNoRewrite) {
			err = nil
		} else {
			chk.E(err)
		}
	}
	return
}
