// Package socketapi serves the varly wire protocol over websockets. One
// envelope per binary frame, one subscription per connection.
package socketapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	"golang.org/x/time/rate"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/publish"
	"varly.lol/servemux"
	"varly.lol/units"
	"varly.lol/varly/helpers"
	"varly.lol/varly/interfaces"
	"varly.lol/ws"
)

const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultPingWait       = DefaultPongWait / 2
	DefaultMaxMessageSize = 1 * units.Mb
)

// A is the websocket handler. The mounted instance only carries the Server;
// ServeHTTP works on a per connection copy holding that connection's context
// and listener.
type A struct {
	Ctx      context.T
	Listener *ws.Listener
	interfaces.Server
}

// New mounts the websocket API on the given path of the servemux.
func New(s interfaces.Server, path string, sm *servemux.S) {
	sm.Handle(path, &A{Server: s})
}

func (a *A) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	remote := helpers.GetRemoteFromReq(r)
	if r.Header.Get("Upgrade") != "websocket" {
		http.Error(w, http.StatusText(http.StatusUpgradeRequired),
			http.StatusUpgradeRequired)
		return
	}
	// concurrent connections each get their own handler state
	a = &A{Server: a.Server}
	var err error
	ticker := time.NewTicker(DefaultPingWait)
	var cancel context.F
	a.Ctx, cancel = context.Cancel(a.Server.Context())
	var conn *websocket.Conn
	if conn, err = Upgrader.Upgrade(w, r, nil); err != nil {
		log.E.F("%s failed to upgrade websocket: %v", remote, err)
		return
	}
	log.T.F("upgraded to websocket %s", remote)
	a.Listener = ws.NewListener(conn, r)
	defer func() {
		log.D.F("%s closing connection", remote)
		cancel()
		ticker.Stop()
		publish.P.Receive(&W{
			Cancel:   true,
			Listener: a.Listener,
		})
		chk.E(a.Listener.Conn.Close())
	}()
	conn.SetReadLimit(DefaultMaxMessageSize)
	chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
	conn.SetPongHandler(func(string) error {
		chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
		return nil
	})
	if lim := a.Server.PerConnectionLimiter(); lim != nil {
		a.Listener.SetLimiter(rate.NewLimiter(lim.Limit(), lim.Burst()))
	}
	go a.Pinger(a.Ctx, ticker, cancel, remote)
	var message []byte
	var typ int
	for {
		select {
		case <-a.Ctx.Done():
			log.T.F("%s closing connection", remote)
			a.Listener.Close()
			return
		default:
		}
		typ, message, err = conn.ReadMessage()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure,
			) {
				log.W.F("unexpected close error from %s: %v", remote, err)
			}
			return
		}
		if typ == websocket.PingMessage {
			log.T.F("pinging %s", remote)
			if err = a.Listener.WriteMessage(websocket.PongMessage, nil); chk.E(err) {
			}
			continue
		}
		if l := a.Listener.Limiter(); l != nil {
			if err = l.Wait(a.Ctx); chk.T(err) {
				continue
			}
		}
		go a.HandleMessage(message, remote)
	}
}
