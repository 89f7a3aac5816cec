package varly

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"varly.lol/chk"
	"varly.lol/log"
)

// ServeHTTP hands everything to the mux. The socket API sits on the root
// route and upgrades websocket requests, the rest is the HTTP API.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serveMux.ServeHTTP(w, r)
}

// Start listens on host:port and serves until Shutdown. Any provided started
// channels close once the listener is up, for tests and supervisors.
func (s *Server) Start(host string, port int, started ...chan bool) (err error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log.I.F("starting varly listener at %s", addr)
	var ln net.Listener
	if ln, err = net.Listen("tcp", addr); err != nil {
		return
	}
	s.Addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:      cors.Default().Handler(s),
		Addr:         addr,
		WriteTimeout: 7 * time.Second,
		ReadTimeout:  7 * time.Second,
		IdleTimeout:  28 * time.Second,
	}
	for _, startedC := range started {
		close(startedC)
	}
	if err = s.httpServer.Serve(ln); errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return
}

// Shutdown cancels the root context, which every socket connection hangs
// off, then closes the record store and stops the HTTP listener.
func (s *Server) Shutdown() {
	log.I.F("shutting down varly")
	s.Cancel()
	log.W.F("closing record store")
	chk.E(s.storage.Close())
	if s.httpServer != nil {
		log.W.F("shutting down listener")
		chk.E(s.httpServer.Shutdown(s.Ctx))
	}
}
