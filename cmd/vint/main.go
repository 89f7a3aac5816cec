// Package main is vint, a workbench for the varint codec and the record
// format built on it: decode and encode varint streams, print binary record
// streams in human form, and tail a running varly server.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	varly_lol "varly.lol"
	"varly.lol/lol"
)

type decCmd struct {
	Hex []string `arg:"positional" help:"hex of the varint stream, raw bytes read from stdin when empty"`
}

type encCmd struct {
	Values []string `arg:"positional,required" help:"values to encode, decimal or 0x prefixed hex"`
}

type dumpCmd struct {
	File string `arg:"positional" help:"file holding a record stream as written by export, stdin when empty"`
}

type tailCmd struct {
	URL   string   `arg:"positional,required" help:"address of the varly server"`
	Since int64    `arg:"--since" help:"replay stored records from this unix second, 0 means everything"`
	Kinds []uint16 `arg:"--kind,separate" help:"restrict to records of this kind, repeatable"`
}

type cmdArgs struct {
	Dec      *decCmd  `arg:"subcommand:dec" help:"decode a varint stream into values and offsets"`
	Enc      *encCmd  `arg:"subcommand:enc" help:"encode values into a hex varint stream"`
	Dump     *dumpCmd `arg:"subcommand:dump" help:"print a binary record stream in human form"`
	Tail     *tailCmd `arg:"subcommand:tail" help:"subscribe to a varly server and print records as they arrive"`
	LogLevel string   `arg:"--log-level" default:"warn" help:"log level: off fatal error warn info debug trace"`
}

func (cmdArgs) Version() string { return "vint " + varly_lol.Version }

var args cmdArgs

func main() {
	p := arg.MustParse(&args)
	lol.SetLogLevel(args.LogLevel)
	var err error
	switch {
	case args.Dec != nil:
		err = Dec(args.Dec)
	case args.Enc != nil:
		err = Enc(args.Enc)
	case args.Dump != nil:
		err = Dump(args.Dump)
	case args.Tail != nil:
		err = Tail(args.Tail)
	default:
		p.WriteHelp(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
