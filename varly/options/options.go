// Package options holds the optional knobs of the server, applied
// functionally so the zero value stays a working default.
package options

import (
	"golang.org/x/time/rate"
)

type T struct {
	// PerConnectionLimiter is the template for the read throttle each socket
	// connection gets, nil leaves connections unthrottled.
	PerConnectionLimiter *rate.Limiter
}

type O func(*T)

func Default() *T {
	return &T{}
}

// WithPerConnectionLimiter throttles the read loop of each websocket
// connection to rps messages per second with the given burst.
func WithPerConnectionLimiter(rps rate.Limit, burst int) O {
	return func(o *T) {
		o.PerConnectionLimiter = rate.NewLimiter(rps, burst)
	}
}
