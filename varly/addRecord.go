package varly

import (
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/publish"
	"varly.lol/record"
)

// AddRecord saves a record to the log and hands it to the publish registry
// so live subscriptions see it. The transports check the id before calling
// and map the returned error, store.ErrDupRecord included, onto their own
// wire forms.
func (s *Server) AddRecord(c context.T, rec *record.T) (err error) {
	if err = s.storage.SaveRecord(c, rec); err != nil {
		return
	}
	publish.P.Deliver(rec)
	log.T.F("record %0x stored as %d", rec.Id, rec.Serial)
	return
}
