// Package main is the varly daemon, a record log service with the binary
// wire protocol on a websocket and a huma HTTP API on the same listener.
package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/time/rate"

	varly_lol "varly.lol"
	"varly.lol/brock"
	"varly.lol/chk"
	"varly.lol/config"
	"varly.lol/context"
	"varly.lol/interrupt"
	"varly.lol/log"
	"varly.lol/lol"
	"varly.lol/units"
	"varly.lol/varly"
	"varly.lol/varly/options"
)

func main() {
	var err error
	var cfg *config.C
	if cfg, err = config.New(); chk.T(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err)
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(1)
	}
	if config.VersionRequested() {
		fmt.Println(cfg.AppName, varly_lol.Version)
		os.Exit(0)
	}
	if config.GetEnv() {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(0)
	}
	if config.HelpRequested() {
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(0)
	}
	log.I.Ln("log level", cfg.LogLevel)
	lol.SetLogLevel(cfg.LogLevel)
	if cfg.Pprof {
		defer profile.Start(profile.MemProfile).Stop()
		go func() {
			chk.E(http.ListenAndServe("127.0.0.1:6060", nil))
		}()
	}
	debug.SetMemoryLimit(cfg.MemLimit)
	var wg sync.WaitGroup
	c, cancel := context.Cancel(context.Bg())
	storage := brock.New(brock.BackendParams{
		Ctx:            c,
		WG:             &wg,
		BlockCacheSize: units.Gb,
		LogLevel:       lol.GetLogLevel(cfg.DbLogLevel),
		MaxLimit:       cfg.MaxLimit,
		DBSizeLimit:    cfg.DBSizeLimit,
		DBLowWater:     cfg.DBLowWater,
		DBHighWater:    cfg.DBHighWater,
		GCFrequency:    time.Duration(cfg.GCFrequency) * time.Second,
	})
	var opts []options.O
	if cfg.RateLimit > 0 {
		log.I.F("per connection rate limit %v messages/s, burst %d",
			cfg.RateLimit, cfg.RateBurst)
		opts = append(opts,
			options.WithPerConnectionLimiter(rate.Limit(cfg.RateLimit),
				cfg.RateBurst))
	}
	var server *varly.Server
	if server, err = varly.NewServer(varly.ServerParams{
		Ctx:       c,
		Cancel:    cancel,
		Storage:   storage,
		DataDir:   cfg.DataDir,
		MaxLimit:  cfg.MaxLimit,
		AdminUser: cfg.AdminUser,
		AdminPass: cfg.AdminPass,
	}, opts...); chk.E(err) {
		os.Exit(1)
	}
	interrupt.AddHandler(func() { server.Shutdown() })
	if err = server.Start(cfg.Listen, cfg.Port); chk.E(err) {
		log.F.F("server terminated: %v", err)
	}
}
