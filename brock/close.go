package brock

import (
	"varly.lol/chk"
	"varly.lol/log"
)

// Close waits for in flight writes, then flushes, compacts and closes the
// database.
func (r *T) Close() (err error) {
	r.WG.Wait()
	chk.E(r.DB.Sync())
	log.I.F("closing database %s", r.Path())
	if err = r.DB.Flatten(4); chk.E(err) {
		return
	}
	log.D.F("database flattened")
	if err = r.seq.Release(); chk.E(err) {
		return
	}
	log.D.F("sequence released")
	if err = r.DB.Close(); chk.E(err) {
		return
	}
	log.I.F("database closed")
	return
}
