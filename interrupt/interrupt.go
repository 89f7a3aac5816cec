// Package interrupt runs a set of registered handlers when an interrupt or
// termination signal arrives, so the process can close its databases and
// listeners before it goes away. A handler can also request the process be
// restarted in place of shutting down.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"varly.lol/log"
)

var (
	mx       sync.Mutex
	handlers []func()
	ch       chan os.Signal
	restart  bool
)

// AddHandler registers a function to be run when an interrupt signal arrives.
// Handlers run in the order they were added. The first call starts the signal
// listener.
func AddHandler(handler func()) {
	mx.Lock()
	defer mx.Unlock()
	handlers = append(handlers, handler)
	if ch == nil {
		ch = make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		go listen()
	}
}

// RequestRestart flags that after the handlers have run the process should
// exec itself again instead of exiting.
func RequestRestart() {
	mx.Lock()
	defer mx.Unlock()
	restart = true
}

func listen() {
	sig := <-ch
	log.I.F("received signal %v", sig)
	mx.Lock()
	hs := make([]func(), len(handlers))
	copy(hs, handlers)
	r := restart
	mx.Unlock()
	for _, h := range hs {
		h()
	}
	if r {
		Restart()
	}
	os.Exit(0)
}
