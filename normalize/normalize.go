// Package normalize turns user supplied addresses into canonical websocket
// URLs and builds the machine readable reason prefixes used in ok and notice
// messages.
package normalize

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"varly.lol/chk"
	"varly.lol/log"
)

var (
	WS    = "ws://"
	WSS   = "wss://"
	HTTP  = "http://"
	HTTPS = "https://"
)

func hasScheme(u string) bool {
	return strings.HasPrefix(u, HTTP) || strings.HasPrefix(u, HTTPS) ||
		strings.HasPrefix(u, WS) || strings.HasPrefix(u, WSS)
}

// URL normalizes the URL
//
// - Adds wss:// to addresses without a port, or with 443, that have no
// protocol prefix
//
// - Adds ws:// to addresses with any other explicit port
//
// - Converts http/s to ws/s
func URL[V string | []byte](v V) (s string) {
	u := string(v)
	if len(u) == 0 {
		return
	}
	u = strings.ToLower(strings.TrimSpace(u))
	// an explicit port on a bare address usually means a local or development
	// server, so plain ws. a bare address without a port is assumed to be
	// behind TLS on 443.
	if strings.Contains(u, ":") && !hasScheme(u) {
		split := strings.Split(u, ":")
		if len(split) != 2 {
			log.D.F("more than one ':' in URL: '%s'", u)
			return
		}
		port, err := strconv.ParseUint(split[1], 10, 16)
		if chk.D(err) {
			log.D.F("error normalizing URL '%s': %s", u, err)
			return
		}
		if port == 443 {
			u = WSS + split[0]
		} else {
			u = WS + u
		}
	}
	if !hasScheme(u) {
		u = WSS + u
	}
	var err error
	var p *url.URL
	if p, err = url.Parse(u); chk.E(err) {
		return
	}
	// convert http/s to ws/s
	switch p.Scheme {
	case "https":
		p.Scheme = "wss"
	case "http":
		p.Scheme = "ws"
	}
	// remove trailing path slash
	p.Path = strings.TrimRight(p.Path, "/")
	return p.String()
}

// Msg constructs a properly formatted message with a machine readable prefix
// for ok and notice envelopes.
func Msg(prefix Reason, format string, params ...any) []byte {
	if len(prefix) < 1 {
		prefix = Error
	}
	return []byte(fmt.Sprintf(prefix.S()+": "+format, params...))
}

type Reason []byte

var (
	Duplicate   = Reason("duplicate")
	RateLimited = Reason("rate-limited")
	Invalid     = Reason("invalid")
	Error       = Reason("error")
	Unsupported = Reason("unsupported")
	Restricted  = Reason("restricted")
)

func (r Reason) S() string { return string(r) }
func (r Reason) B() []byte { return []byte(r) }
func (r Reason) IsPrefix(reason []byte) bool {
	return bytes.HasPrefix(reason, r.B())
}
func (r Reason) F(format string, params ...any) []byte {
	return Msg(r, format, params...)
}
