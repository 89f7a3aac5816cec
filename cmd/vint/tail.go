package main

import (
	"encoding/json"
	"fmt"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/interrupt"
	"varly.lol/kind"
	"varly.lol/log"
	"varly.lol/timestamp"
	"varly.lol/ws"
)

// Tail connects to a varly server, subscribes from the given timestamp and
// prints records as they arrive, the stored ones first and then the live
// ones, each as its serial and a line of JSON. Runs until interrupted.
func Tail(cmd *tailCmd) (err error) {
	c, cancel := context.Cancel(context.Bg())
	interrupt.AddHandler(cancel)
	var cl *ws.Client
	if cl, err = ws.Connect(c, cmd.URL); chk.E(err) {
		return
	}
	defer func() { chk.D(cl.Close()) }()
	var kinds []*kind.T
	for _, k := range cmd.Kinds {
		kinds = append(kinds, kind.New(k))
	}
	var sub *ws.Subscription
	if sub, err = cl.Subscribe(c, timestamp.FromUnix(cmd.Since),
		kinds...); chk.E(err) {
		return
	}
	for {
		select {
		case <-c.Done():
			return nil
		case <-cl.Context().Done():
			return cl.ConnectionError
		case <-sub.EndOfStored:
			log.I.Ln("end of stored records, live from here")
		case rec := <-sub.Records:
			if rec == nil {
				return nil
			}
			var j []byte
			if j, err = json.Marshal(rec.ToRecordJ()); chk.E(err) {
				return
			}
			fmt.Printf("%d %s\n", rec.Serial, j)
		}
	}
}
