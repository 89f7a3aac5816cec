package socketapi

import (
	"fmt"

	"varly.lol/chk"
	"varly.lol/envelopes"
	"varly.lol/envelopes/appendenvelope"
	"varly.lol/envelopes/closeenvelope"
	"varly.lol/envelopes/noticeenvelope"
	"varly.lol/envelopes/subenvelope"
	"varly.lol/log"
)

// HandleMessage dispatches one inbound frame by its envelope label. Anything
// a handler wants the client to know about a failure comes back as the
// notice and goes out in a notice envelope.
func (a *A) HandleMessage(msg []byte, remote string) {
	var notice []byte
	var err error
	var t byte
	var rem []byte
	if t, rem, err = envelopes.Identify(msg); chk.E(err) {
		notice = []byte(err.Error())
	} else {
		switch t {
		case appendenvelope.L:
			notice = a.HandleAppend(a.Ctx, rem, remote)
		case subenvelope.L:
			notice = a.HandleSub(a.Ctx, rem, remote)
		case closeenvelope.L:
			notice = a.HandleClose(rem, remote)
		default:
			notice = []byte(fmt.Sprintf("unknown envelope label %c", t))
		}
	}
	if len(notice) > 0 {
		log.D.F("notice->%s %s", remote, notice)
		if err = noticeenvelope.NewFrom(notice).Write(a.Listener); err != nil {
			return
		}
	}
}
