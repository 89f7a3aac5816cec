// Package ws implements the two sides of the varly wire protocol socket, a
// server side Listener and a dialing Client.
package ws

import (
	"net/http"
	"strings"
	"sync"

	"github.com/fasthttp/websocket"
	"golang.org/x/time/rate"

	"go.uber.org/atomic"
)

// Listener is a websocket implementation for a server side listener.
type Listener struct {
	mutex   sync.Mutex
	Conn    *websocket.Conn
	Request *http.Request
	remote  atomic.String
	limiter *rate.Limiter
}

// NewListener creates a new Listener for an inbound connection.
func NewListener(conn *websocket.Conn, req *http.Request) (ws *Listener) {
	ws = &Listener{Conn: conn, Request: req}
	ws.setRemoteFromReq(req)
	return
}

func (ws *Listener) setRemoteFromReq(r *http.Request) {
	var rr string
	// a reverse proxy should populate this field so we see the remote not the
	// proxy
	rem := r.Header.Get("X-Forwarded-For")
	if rem == "" {
		rr = r.RemoteAddr
	} else {
		splitted := strings.Split(rem, " ")
		if len(splitted) == 1 {
			rr = splitted[0]
		}
		if len(splitted) == 2 {
			rr = splitted[1]
		}
	}
	if rr == "" {
		// if the header is empty or mangled, fall back to the connection remote,
		// which is the proxy unless the server is listening directly
		rr = ws.Conn.NetConn().RemoteAddr().String()
	}
	ws.remote.Store(rr)
}

// Write a message to send to a client. Envelopes write themselves through
// this, so each envelope goes out as one binary frame.
func (ws *Listener) Write(p []byte) (n int, err error) {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	err = ws.Conn.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		n = len(p)
		if strings.Contains(err.Error(), "close sent") {
			ws.Close()
			err = nil
			return
		}
	}
	return
}

// WriteMessage is a wrapper around the websocket WriteMessage, which includes
// a websocket message type identifier.
func (ws *Listener) WriteMessage(t int, b []byte) error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.Conn.WriteMessage(t, b)
}

// RealRemote returns the stored remote address of the client.
func (ws *Listener) RealRemote() string { return ws.remote.Load() }

// Limiter returns the read throttle for the connection, nil if unthrottled.
func (ws *Listener) Limiter() *rate.Limiter     { return ws.limiter }
func (ws *Listener) SetLimiter(l *rate.Limiter) { ws.limiter = l }

// Req returns the http.Request associated with the client connection.
func (ws *Listener) Req() *http.Request { return ws.Request }

// Close the Listener connection from the server side.
func (ws *Listener) Close() (err error) { return ws.Conn.Close() }
