package socketapi

import (
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/envelopes/eoseenvelope"
	"varly.lol/envelopes/recordenvelope"
	"varly.lol/envelopes/subenvelope"
	"varly.lol/log"
	"varly.lol/normalize"
	"varly.lol/publish"
	"varly.lol/record"
	"varly.lol/store"
)

// HandleSub answers a subscribe request by replaying the stored records that
// match, marking the end of stored records, and then registering the
// connection for live deliveries. A second subscribe on the same connection
// replaces the first, so a connection carries at most one subscription.
func (a *A) HandleSub(c context.T, req []byte, remote string) (msg []byte) {
	log.T.F("handleSub %s", remote)
	var err error
	var rem []byte
	sto := a.Storage()
	if sto == nil {
		panic("no store has been set to query records")
	}
	env := subenvelope.New()
	if rem, err = env.UnmarshalBinary(req); chk.E(err) {
		return []byte(err.Error())
	}
	if len(rem) > 0 {
		log.T.F("extra '%0x'", rem)
	}
	var recs record.Ts
	if recs, err = sto.QueryRecords(c, &store.Range{
		Since: env.Since,
		Kinds: env.Kinds,
		Limit: uint(a.MaxLimit()),
	}); chk.E(err) {
		return normalize.Error.F("failed to query records: %s", err.Error())
	}
	for _, rec := range recs {
		if err = recordenvelope.NewFrom(rec.Serial,
			rec).Write(a.Listener); chk.E(err) {
			return
		}
	}
	if err = eoseenvelope.New().Write(a.Listener); chk.E(err) {
		return
	}
	publish.P.Receive(&W{
		Listener: a.Listener,
		Since:    env.Since,
		Kinds:    env.Kinds,
	})
	return
}
