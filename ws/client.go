package ws

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/puzpuzpuz/xsync/v3"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/envelopes"
	"varly.lol/envelopes/appendenvelope"
	"varly.lol/envelopes/eoseenvelope"
	"varly.lol/envelopes/noticeenvelope"
	"varly.lol/envelopes/okenvelope"
	"varly.lol/envelopes/recordenvelope"
	"varly.lol/hex"
	"varly.lol/kind"
	"varly.lol/log"
	"varly.lol/normalize"
	"varly.lol/record"
	"varly.lol/timestamp"
)

// Client is an outbound connection to a varly server.
type Client struct {
	// Ctx will be canceled when the connection closes.
	Ctx                     context.T
	ConnectionContextCancel context.F
	closeMutex              sync.Mutex
	url                     string
	// RequestHeader is passed on the handshake, e.g. for an origin header.
	RequestHeader http.Header
	Connection    *Connection
	// a connection carries at most one subscription
	subMutex     sync.Mutex
	subscription *Subscription

	ConnectionError error
	notices         chan []byte
	okCallbacks     *xsync.MapOf[string, func(bool, []byte)]
	writeQueue      chan writeRequest
}

func (r *Client) URL() string { return r.url }

// String just returns the server URL.
func (r *Client) String() string { return r.url }

type writeRequest struct {
	msg    []byte
	answer chan error
}

// NewClient returns a new client. The connection will be closed when the
// context is canceled.
func NewClient(c context.T, url string, opts ...Option) *Client {
	ctx, cancel := context.Cancel(c)
	r := &Client{
		url:                     normalize.URL(url),
		Ctx:                     ctx,
		ConnectionContextCancel: cancel,
		okCallbacks:             xsync.NewMapOf[string, func(bool, []byte)](),
		writeQueue:              make(chan writeRequest),
	}

	for _, opt := range opts {
		switch o := opt.(type) {
		case WithNoticeHandler:
			r.notices = make(chan []byte)
			go func() {
				for n := range r.notices {
					o(n)
				}
			}()
		}
	}

	return r
}

// Connect returns a client connected to url. Once successfully connected,
// cancelling ctx has no effect. To close the connection, call r.Close().
func Connect(c context.T, url string, opts ...Option) (*Client, error) {
	r := NewClient(c, url, opts...)
	err := r.Connect(c)
	return r, err
}

// Option is the type of the optional arguments to NewClient.
type Option interface {
	IsClientOption()
}

// WithNoticeHandler just takes notices and is expected to do something with
// them. When not given, notices are logged.
type WithNoticeHandler func(notice []byte)

func (_ WithNoticeHandler) IsClientOption() {}

var _ Option = (WithNoticeHandler)(nil)

// Context retrieves the context that is associated with this connection.
func (r *Client) Context() context.T { return r.Ctx }

// IsConnected returns true if the connection to the server seems to be active.
func (r *Client) IsConnected() bool { return r.Ctx.Err() == nil }

// Connect tries to establish a websocket connection to r.URL(). If the
// context expires before the connection is complete, an error is returned.
// Once successfully connected, context expiration has no effect: call r.Close
// to close the connection.
func (r *Client) Connect(c context.T) (err error) {
	if r.Ctx == nil || r.okCallbacks == nil {
		return fmt.Errorf("client must be initialized with a call to NewClient()")
	}
	if len(r.url) < 1 {
		return fmt.Errorf("invalid server URL '%s'", r.URL())
	}
	if _, ok := c.Deadline(); !ok {
		// if no timeout is set, force it to 7 seconds
		var cancel context.F
		c, cancel = context.Timeout(c, 7*time.Second)
		defer cancel()
	}
	var conn *Connection
	conn, err = NewConnection(c, r.url, r.RequestHeader, nil)
	if err != nil {
		return fmt.Errorf("error opening websocket to '%s': %w", r.URL(), err)
	}
	r.Connection = conn
	// ping every 29 seconds
	ticker := time.NewTicker(29 * time.Second)
	// to be used when the connection is closed
	go func() {
		<-r.Ctx.Done()
		// close these things when the connection is closed
		if r.notices != nil {
			close(r.notices)
		}
		ticker.Stop()
		r.subMutex.Lock()
		sub := r.subscription
		r.subMutex.Unlock()
		if sub != nil {
			go sub.Unsub()
		}
	}()

	// queue all write operations here so we don't do mutex spaghetti
	go func() {
		var err error
		for {
			select {
			case <-ticker.C:
				err = wsutil.WriteClientMessage(r.Connection.Conn, ws.OpPing,
					nil)
				if err != nil {
					log.D.F("{%s} error writing ping: %v; closing websocket",
						r.URL(), err)
					chk.D(r.Close()) // this should trigger a context cancelation
					return
				}
			case wr := <-r.writeQueue:
				if wr.msg == nil {
					return
				}
				// all write requests go through this to prevent races
				if err = r.Connection.WriteMessage(r.Ctx, wr.msg); err != nil {
					wr.answer <- err
				}
				close(wr.answer)
			case <-r.Ctx.Done():
				return
			}
		}
	}()

	// general message reader loop
	go r.MessageReadLoop(conn)
	return nil
}

func (r *Client) MessageReadLoop(conn *Connection) {
	var err error
	for {
		buf := new(bytes.Buffer)
		if err = conn.ReadMessage(r.Ctx, buf); err != nil {
			r.ConnectionError = err
			chk.D(r.Close())
			break
		}

		message := buf.Bytes()
		var rem []byte
		var t byte
		if t, rem, err = envelopes.Identify(message); chk.E(err) {
			continue
		}

		switch t {
		case noticeenvelope.L:
			env := noticeenvelope.New()
			if rem, err = env.UnmarshalBinary(rem); chk.E(err) {
				continue
			}
			// see WithNoticeHandler
			if r.notices != nil {
				r.notices <- env.Message
			} else {
				log.D.F("NOTICE from %s: '%s'", r.URL(), env.Message)
			}

		case recordenvelope.L:
			env := recordenvelope.New()
			if rem, err = env.UnmarshalBinary(rem); chk.E(err) {
				continue
			}
			// the serial travels on the envelope, not in the record form
			env.Record.Serial = env.Serial
			r.subMutex.Lock()
			sub := r.subscription
			r.subMutex.Unlock()
			if sub == nil {
				log.D.F("{%s} record %s with no active subscription",
					r.URL(), env.Record.IdString())
				continue
			}
			// drop records that do not verify, the server should never send one
			if !env.Record.CheckId() {
				log.D.F("{%s} record id does not verify: %s",
					r.URL(), env.Record.IdString())
				continue
			}
			sub.dispatchRecord(env.Record)

		case eoseenvelope.L:
			env := eoseenvelope.New()
			if rem, err = env.UnmarshalBinary(rem); chk.E(err) {
				continue
			}
			r.subMutex.Lock()
			sub := r.subscription
			r.subMutex.Unlock()
			if sub != nil {
				sub.dispatchEose()
			}

		case okenvelope.L:
			env := okenvelope.New()
			if rem, err = env.UnmarshalBinary(rem); chk.E(err) {
				continue
			}
			if okCallback, exist := r.okCallbacks.Load(hex.Enc(env.Id)); exist {
				okCallback(env.OK, env.Reason)
			} else {
				log.D.F("{%s} got an unexpected OK message for record %0x",
					r.URL(), env.Id)
			}

		default:
			log.D.F("{%s} unknown message label %d", r.URL(), t)
		}
	}
}

// Write queues a message to be sent to the server.
func (r *Client) Write(msg []byte) (ch chan error) {
	ch = make(chan error, 1)
	timeout := time.After(time.Second * 5)
	select {
	case r.writeQueue <- writeRequest{msg: msg, answer: ch}:
	case <-r.Ctx.Done():
		ch <- fmt.Errorf("connection closed")
	case <-timeout:
		ch <- fmt.Errorf("write timed out")
		return
	}
	return
}

// Append sends a record to the server for storage and waits for the OK
// response. A negative response comes back as an error carrying the reason.
func (r *Client) Append(c context.T, rec *record.T) error {
	var cancel context.F
	if _, ok := c.Deadline(); !ok {
		// if no timeout is set, force it to 4 seconds
		c, cancel = context.Timeout(c, 4*time.Second)
		defer cancel()
	} else {
		// otherwise make the context cancellable, so we can stop everything upon
		// receiving an OK
		c, cancel = context.Cancel(c)
		defer cancel()
	}
	id := hex.Enc(rec.Id)
	// listen for an OK callback
	var err error
	gotOk := false
	r.okCallbacks.Store(id, func(ok bool, reason []byte) {
		gotOk = true
		if !ok {
			err = log.E.Err("msg: %s", reason)
		}
		cancel()
	})
	defer r.okCallbacks.Delete(id)
	var enb []byte
	if enb, err = appendenvelope.NewFrom(rec).MarshalBinary(nil); chk.E(err) {
		return err
	}
	if err = <-r.Write(enb); err != nil {
		return err
	}
	for {
		select {
		case <-c.Done():
			// this fires when we get an OK or when the context is canceled
			if gotOk {
				return err
			}
			return c.Err()
		case <-r.Ctx.Done():
			// this is caused when we lose connectivity
			return err
		}
	}
}

// Subscribe asks the server for stored records since the given timestamp,
// optionally narrowed to a set of kinds, with live delivery after the replay.
// Records are returned through the channel sub.Records. A connection carries
// one subscription, so subscribing again replaces the previous one.
//
// Remember to cancel subscriptions, either by calling `.Unsub()` on them or
// ensuring their `context.T` will be canceled at some point.
func (r *Client) Subscribe(c context.T, since *timestamp.T,
	kinds ...*kind.T) (sub *Subscription, err error) {
	sub = r.PrepareSubscription(c, since, kinds...)
	if err := sub.Fire(); err != nil {
		return nil, fmt.Errorf("couldn't subscribe at %s: %w", r.URL(), err)
	}
	return sub, nil
}

// PrepareSubscription creates a subscription, but doesn't fire it.
func (r *Client) PrepareSubscription(c context.T, since *timestamp.T,
	kinds ...*kind.T) *Subscription {
	if r.Connection == nil {
		panic(fmt.Errorf("must call .Connect() first before calling .Subscribe()"))
	}
	if since == nil {
		since = timestamp.FromUnix(0)
	}
	ctx, cancel := context.Cancel(c)
	sub := &Subscription{
		Client:      r,
		Context:     ctx,
		cancel:      cancel,
		Since:       since,
		Kinds:       kinds,
		Records:     make(record.C),
		EndOfStored: make(chan struct{}),
	}

	r.subMutex.Lock()
	prev := r.subscription
	r.subscription = sub
	r.subMutex.Unlock()
	if prev != nil {
		// the new subscribe replaces the old one server side, so no close
		// message goes out for it
		prev.live.Store(false)
		prev.cancel()
	}

	// start handling records, eose, unsub etc
	go sub.start()

	return sub
}

func (r *Client) clearSubscription(sub *Subscription) {
	r.subMutex.Lock()
	if r.subscription == sub {
		r.subscription = nil
	}
	r.subMutex.Unlock()
}

// QuerySync subscribes, collects the stored records until the end of stored
// marker arrives, unsubscribes and returns the collected records.
func (r *Client) QuerySync(c context.T, since *timestamp.T,
	kinds ...*kind.T) ([]*record.T, error) {
	sub, err := r.Subscribe(c, since, kinds...)
	if err != nil {
		return nil, err
	}
	defer sub.Unsub()

	if _, ok := c.Deadline(); !ok {
		// if no timeout is set, force it to 7 seconds
		var cancel context.F
		c, cancel = context.Timeout(c, 7*time.Second)
		defer cancel()
	}

	var recs []*record.T
	for {
		select {
		case rec := <-sub.Records:
			if rec == nil {
				return recs, nil
			}
			recs = append(recs, rec)
		case <-sub.EndOfStored:
			return recs, nil
		case <-c.Done():
			return recs, nil
		}
	}
}

func (r *Client) Close() error {
	r.closeMutex.Lock()
	defer r.closeMutex.Unlock()

	if r.ConnectionContextCancel == nil {
		return fmt.Errorf("client not connected")
	}

	r.ConnectionContextCancel()
	r.ConnectionContextCancel = nil
	return r.Connection.Conn.Close()
}
