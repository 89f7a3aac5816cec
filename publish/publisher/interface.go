package publisher

import (
	"varly.lol/record"
	"varly.lol/typer"
)

type I interface {
	typer.T
	// Deliver hands a freshly stored record to the publisher so it can relay it
	// to any subscribers whose filters match.
	Deliver(rec *record.T)
	// Receive accepts a subscription management message, using the typer.T to
	// match it to the publisher.I that handles it.
	Receive(msg typer.T)
}

type Publishers []I
