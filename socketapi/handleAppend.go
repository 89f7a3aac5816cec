package socketapi

import (
	"errors"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/envelopes/appendenvelope"
	"varly.lol/log"
	"varly.lol/store"
)

// HandleAppend stores the record in an append request and answers with an ok
// envelope either way. A message comes back as the notice only when the
// request is too broken to produce an ok envelope.
func (a *A) HandleAppend(c context.T, req []byte, remote string) (msg []byte) {
	log.T.F("handleAppend %s", remote)
	var err error
	var rem []byte
	if a.Storage() == nil {
		panic("no store has been set to store records")
	}
	env := appendenvelope.New()
	if rem, err = env.UnmarshalBinary(req); chk.E(err) {
		return []byte(err.Error())
	}
	if len(rem) > 0 {
		log.T.F("extra '%0x'", rem)
	}
	rec := env.Record
	if !rec.CheckId() {
		if err = a.Invalid(rec.Id,
			"record id is computed incorrectly"); chk.E(err) {
		}
		return
	}
	if err = a.AddRecord(c, rec); err != nil {
		if errors.Is(err, store.ErrDupRecord) {
			if err = a.Duplicate(rec.Id, "%s", err.Error()); chk.E(err) {
			}
			return
		}
		if err = a.Error(rec.Id, "failed to save (%s)", err.Error()); chk.E(err) {
		}
		return
	}
	log.T.F("record %0x stored as %d for %s", rec.Id, rec.Serial, remote)
	if err = a.Accepted(rec.Id); chk.E(err) {
	}
	return
}
