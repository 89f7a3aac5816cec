// Package publish is a top level router for publishing records to registered
// publishers.
package publish

import (
	"varly.lol/publish/publisher"
	"varly.lol/record"
	"varly.lol/typer"
)

// S is the control structure for the subscription management scheme.
type S struct{ publisher.Publishers }

var _ publisher.I = &S{}

var P = &S{}

// Register adds a publisher to the router. Publishers register themselves in
// their init functions so registration completes before any delivery starts.
func Register(p publisher.I) {
	P.Publishers = append(P.Publishers, p)
}

func (s *S) Type() string { return "publish" }

// Deliver hands the record to every registered publisher.
func (s *S) Deliver(rec *record.T) {
	for _, p := range s.Publishers {
		p.Deliver(rec)
	}
}

// Receive routes a subscription management message to the publisher whose Type
// matches the message's Type.
func (s *S) Receive(msg typer.T) {
	t := msg.Type()
	for _, p := range s.Publishers {
		if p.Type() == t {
			p.Receive(msg)
			return
		}
	}
}
