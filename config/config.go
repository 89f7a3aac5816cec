// Package config loads the varly configuration from the process environment,
// with a .env file under the data directory overriding it when present. The
// configuration is deliberately minimal, anything more complex belongs in the
// database where the APIs make it easy to change.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-simpler.org/env"

	"varly.lol/appdata"
	"varly.lol/chk"
	"varly.lol/config/keyvalue"
	envfile "varly.lol/env"
)

type C struct {
	AppName     string  `env:"APP_NAME" default:"varly"`
	Listen      string  `env:"LISTEN" default:"0.0.0.0" usage:"network listen address"`
	Port        int     `env:"PORT" default:"3334" usage:"port to listen on"`
	AdminUser   string  `env:"ADMIN_USER" default:"admin" usage:"basic auth user for the admin endpoints"`
	AdminPass   string  `env:"ADMIN_PASS" usage:"basic auth password for the admin endpoints, empty keeps them all disabled"`
	LogLevel    string  `env:"LOG_LEVEL" default:"info" usage:"log level: fatal error warn info debug trace"`
	DbLogLevel  string  `env:"DB_LOG_LEVEL" default:"info" usage:"database log level: fatal error warn info debug trace"`
	DataDir     string  `env:"DATA_DIR" usage:"location of the record database (default is OS specific, based on APP_NAME)"`
	MaxLimit    int     `env:"MAX_LIMIT" default:"512" usage:"maximum number of records a range query returns"`
	DBSizeLimit int     `env:"DB_SIZE_LIMIT" default:"0" usage:"bytes of storage the database may use before the garbage collector prunes value logs, 0 means disabled"`
	DBLowWater  int     `env:"DB_LOW_WATER" default:"60" usage:"percentage of DB_SIZE_LIMIT a GC run prunes down to"`
	DBHighWater int     `env:"DB_HIGH_WATER" default:"80" usage:"percentage of DB_SIZE_LIMIT that triggers a GC run"`
	GCFrequency int     `env:"GC_FREQUENCY" default:"3600" usage:"seconds between checks of database utilisation"`
	RateLimit   float64 `env:"RATE_LIMIT" default:"0" usage:"messages per second a socket connection may send, 0 disables the limiter"`
	RateBurst   int     `env:"RATE_BURST" default:"4" usage:"burst allowance for the per connection rate limiter"`
	Pprof       bool    `env:"PPROF" default:"false" usage:"enable pprof on 127.0.0.1:6060"`
	MemLimit    int64   `env:"MEM_LIMIT" default:"250000000" usage:"set memory limit, default is 250Mb"`
}

// New loads the configuration from the environment, fills in the platform
// data directory when DATA_DIR is not set, and folds in a .env file found
// there. Values from the file override the process environment.
func New() (cfg *C, err error) {
	cfg = &C{}
	if err = env.Load(cfg, &env.Options{SliceSep: ","}); chk.T(err) {
		return
	}
	if cfg.DataDir == "" {
		cfg.DataDir = appdata.Dir(cfg.AppName)
	}
	envPath := filepath.Join(cfg.DataDir, ".env")
	if _, e := os.Stat(envPath); e == nil {
		var src envfile.Env
		if src, err = envfile.GetEnv(envPath); chk.T(err) {
			return
		}
		if err = env.Load(cfg, &env.Options{Source: src, SliceSep: ","}); chk.E(err) {
			return
		}
	}
	return
}

// HelpRequested returns true if any of the common types of help invocation are
// found as the first command line parameter/flag.
func HelpRequested() (help bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// GetEnv returns true when the first command line parameter asks for the
// current configuration as a shell script.
func GetEnv() (requested bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "env":
			requested = true
		}
	}
	return
}

// VersionRequested returns true when the first command line parameter asks
// for the version string.
func VersionRequested() (requested bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "version", "-v", "--version":
			requested = true
		}
	}
	return
}

// PrintEnv renders the current configuration to a provided io.Writer in the
// same shell script form the .env file is read as.
func PrintEnv(cfg *C, printer io.Writer) {
	keyvalue.PrintEnv(*cfg, printer)
}

// PrintHelp outputs a help text listing the configuration options and default
// values to a provided io.Writer (usually os.Stderr or os.Stdout).
func PrintHelp(cfg *C, printer io.Writer) {
	_, _ = fmt.Fprintf(printer,
		"Environment variables that configure %s:\n\n", cfg.AppName)
	env.Usage(cfg, printer, &env.Options{SliceSep: ","})
	_, _ = fmt.Fprintf(printer,
		"\nCLI parameter 'help' also prints this information\n"+
			"\na .env file found at the DATA_DIR path will be automatically "+
			"loaded for configuration.\nit overrides the environment, and you "+
			"can edit the file to set configuration options\n\n"+
			"use the parameter 'env' to print out the current configuration "+
			"to the terminal\n\n"+
			"set the environment using\n\n\t%s env>%s/.env\n\n",
		os.Args[0], cfg.DataDir)
}
