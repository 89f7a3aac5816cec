package brock

import (
	"varly.lol/chk"
)

// Sync flushes the database buffers to disk.
func (r *T) Sync() (err error) {
	if err = r.DB.Sync(); chk.E(err) {
		return
	}
	return
}
