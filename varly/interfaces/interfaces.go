// Package interfaces narrows the running server down to the methods the
// transport layers actually call, so socketapi and openapi can be mounted
// without importing the server package itself.
package interfaces

import (
	"net/http"

	"golang.org/x/time/rate"

	"varly.lol/context"
	"varly.lol/record"
	"varly.lol/store"
)

// Server is the view of the server that the websocket and HTTP APIs get.
type Server interface {
	// Context returns the server's root context, which cancels on shutdown.
	Context() context.T
	// Storage returns the record log.
	Storage() store.I
	// AddRecord saves a record to the log and notifies the live
	// subscriptions. The transports map its errors, store.ErrDupRecord
	// included, onto their own wire forms.
	AddRecord(c context.T, rec *record.T) (err error)
	// MaxLimit is the ceiling on how many records one replay or range query
	// returns.
	MaxLimit() int
	// PerConnectionLimiter returns the rate limit template applied to each
	// new socket connection, or nil when connections are unthrottled.
	PerConnectionLimiter() *rate.Limiter
	// AdminAuth reports whether a request carries the admin credentials.
	AdminAuth(r *http.Request) (authed bool)
	// Shutdown stops the server, disconnecting all the clients.
	Shutdown()
}
