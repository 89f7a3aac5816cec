package socketapi

import (
	"varly.lol/chk"
	"varly.lol/envelopes/closeenvelope"
	"varly.lol/log"
	"varly.lol/publish"
)

// HandleClose drops the connection's subscription. The connection itself
// stays up, the client just stops receiving live records.
func (a *A) HandleClose(req []byte, remote string) (msg []byte) {
	var err error
	var rem []byte
	env := closeenvelope.New()
	if rem, err = env.UnmarshalBinary(req); chk.E(err) {
		return []byte(err.Error())
	}
	if len(rem) > 0 {
		log.T.F("extra '%0x'", rem)
	}
	log.T.F("closing subscription of %s", remote)
	publish.P.Receive(&W{
		Cancel:   true,
		Listener: a.Listener,
	})
	return
}
