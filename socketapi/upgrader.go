package socketapi

import (
	"net/http"

	"github.com/fasthttp/websocket"
)

// Upgrader in use by the websocket API. Origin checks are the business of a
// reverse proxy, anything that can reach this port may connect.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
