package socketapi

import (
	"time"

	"github.com/fasthttp/websocket"

	"varly.lol/context"
	"varly.lol/log"
)

// Pinger keeps the connection alive; the read deadline extends on each pong
// that comes back, so a peer that stops answering gets disconnected.
func (a *A) Pinger(ctx context.T, ticker *time.Ticker, cancel context.F,
	remote string) {
	defer func() {
		cancel()
		ticker.Stop()
		_ = a.Listener.Conn.Close()
	}()
	var err error
	for {
		select {
		case <-ticker.C:
			err = a.Listener.Conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(DefaultWriteWait))
			if err != nil {
				log.E.F("error writing ping to %s: %v; closing websocket",
					remote, err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
