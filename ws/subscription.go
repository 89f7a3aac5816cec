package ws

import (
	"sync"
	"sync/atomic"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/envelopes/closeenvelope"
	"varly.lol/envelopes/subenvelope"
	"varly.lol/errorf"
	"varly.lol/kind"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/timestamp"
)

// Subscription is the single stream of records a connection can hold. The
// server replays stored records since the requested timestamp, marks the end
// of the replay, and then delivers live matches as they arrive.
type Subscription struct {
	Client *Client

	// Since is the replay cutoff, records at or after this timestamp are sent.
	Since *timestamp.T
	// Kinds narrows the subscription when not empty.
	Kinds []*kind.T

	// The Records channel emits every record that comes in on the subscription.
	// It is closed when the subscription ends.
	Records record.C
	mu      sync.Mutex

	// The EndOfStored channel receives once when the replay of stored records
	// has finished and live delivery begins.
	EndOfStored chan struct{}

	// Context will be done when the subscription ends.
	Context context.T

	live   atomic.Bool
	eosed  atomic.Bool
	cancel context.F

	// tracks records received before the end of stored marker so they are all
	// dispatched before EndOfStored fires
	storedwg sync.WaitGroup
}

func (sub *Subscription) start() {
	<-sub.Context.Done()
	// the subscription ends once the context is canceled (if not already)
	sub.Unsub()

	// so there is no possibility of closing the Records channel and then trying
	// to send to it
	sub.mu.Lock()
	close(sub.Records)
	sub.mu.Unlock()
}

func (sub *Subscription) dispatchRecord(rec *record.T) {
	added := false
	if !sub.eosed.Load() {
		sub.storedwg.Add(1)
		added = true
	}

	go func() {
		sub.mu.Lock()
		defer sub.mu.Unlock()

		if sub.live.Load() {
			select {
			case sub.Records <- rec:
			case <-sub.Context.Done():
			}
		}

		if added {
			sub.storedwg.Done()
		}
	}()
}

func (sub *Subscription) dispatchEose() {
	if sub.eosed.CompareAndSwap(false, true) {
		go func() {
			sub.storedwg.Wait()
			select {
			case sub.EndOfStored <- struct{}{}:
			case <-sub.Context.Done():
			}
		}()
	}
}

// Unsub closes the subscription, telling the server to stop delivering.
// Unsub() also closes the channel sub.Records.
func (sub *Subscription) Unsub() {
	// cancel the context (if it's not canceled already)
	sub.cancel()
	// mark the subscription closed and tell the server once
	if sub.live.CompareAndSwap(true, false) {
		sub.Close()
	}
	sub.Client.clearSubscription(sub)
}

// Close just sends the unsubscribe message. You probably want Unsub() instead.
func (sub *Subscription) Close() {
	if sub.Client.IsConnected() {
		var err error
		var b []byte
		if b, err = closeenvelope.New().MarshalBinary(nil); chk.E(err) {
			return
		}
		log.D.F("{%s} sending close", sub.Client.URL())
		<-sub.Client.Write(b)
	}
}

// Fire sends the subscribe request to the server.
func (sub *Subscription) Fire() (err error) {
	var b []byte
	if b, err = subenvelope.NewFrom(sub.Since,
		sub.Kinds...).MarshalBinary(nil); chk.E(err) {
		return
	}
	log.D.F("{%s} sending subscribe since %s with %d kinds",
		sub.Client.URL(), sub.Since, len(sub.Kinds))
	sub.live.Store(true)
	if err := <-sub.Client.Write(b); err != nil {
		sub.cancel()
		return errorf.E("failed to write: %w", err)
	}
	return nil
}
