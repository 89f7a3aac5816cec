package socketapi

import (
	"sync"

	"varly.lol/chk"
	"varly.lol/envelopes/recordenvelope"
	"varly.lol/kind"
	"varly.lol/publish"
	"varly.lol/publish/publisher"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/timestamp"
	"varly.lol/typer"
	"varly.lol/ws"
)

const Type = "socketapi"

func init() {
	publish.Register(NewPublisher())
}

// Map holds the live subscription of each connection, the range of records
// it asked to watch.
type Map map[*ws.Listener]*store.Range

// W is the registry message for socket subscriptions. Cancel drops the
// connection's subscription, otherwise Since and Kinds replace whatever the
// connection watched before.
type W struct {
	*ws.Listener
	Cancel bool
	Since  *timestamp.T
	Kinds  []*kind.T
}

func (w *W) Type() string { return Type }

// S is the socket side of the publish registry. It delivers newly saved
// records to every connection whose subscription matches them.
type S struct {
	// Mx guards Map.
	Mx sync.Mutex
	// Map is the map of live subscriptions from the websocket api.
	Map
}

var _ publisher.I = &S{}

func NewPublisher() *S { return &S{Map: make(Map)} }

func (p *S) Type() string { return Type }

// Receive updates the registry from a W.
func (p *S) Receive(msg typer.T) {
	m, ok := msg.(*W)
	if !ok {
		return
	}
	p.Mx.Lock()
	defer p.Mx.Unlock()
	if m.Cancel {
		delete(p.Map, m.Listener)
		return
	}
	p.Map[m.Listener] = &store.Range{Since: m.Since, Kinds: m.Kinds}
}

// Deliver writes the record to the matching connections. A dead socket only
// logs, the read loop is responsible for reaping the registration.
func (p *S) Deliver(rec *record.T) {
	var err error
	p.Mx.Lock()
	for l, q := range p.Map {
		if !q.Matches(rec) {
			continue
		}
		if err = recordenvelope.NewFrom(rec.Serial, rec).Write(l); chk.E(err) {
			continue
		}
	}
	p.Mx.Unlock()
}
