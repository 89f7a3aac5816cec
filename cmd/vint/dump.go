package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"varly.lol/chk"
	"varly.lol/record"
	"varly.lol/units"
	"varly.lol/varint"
)

// frames past this length are treated as stream corruption, not records
const maxFrameLen = 512 * units.Mb

// Dump reads a stream of varint length prefixed binary records, the format
// the export API writes, and prints each record as a line of JSON. Records
// whose id does not verify are printed anyway, with a complaint on stderr,
// because a dump tool is for looking at broken data too.
func Dump(cmd *dumpCmd) (err error) {
	f := os.Stdin
	if cmd.File != "" {
		if f, err = os.Open(cmd.File); chk.E(err) {
			return
		}
		defer f.Close()
	}
	br := bufio.NewReaderSize(f, units.Mb)
	var buf []byte
	var count int
	for {
		var l uint64
		if l, _, err = varint.Read(br); err != nil {
			// a clean end of stream lands exactly on a frame boundary
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return
		}
		if l > maxFrameLen {
			return fmt.Errorf("record %d: frame of %d bytes exceeds %d"+
				" byte maximum", count, l, maxFrameLen)
		}
		if uint64(cap(buf)) < l {
			buf = make([]byte, l)
		}
		buf = buf[:l]
		if _, err = io.ReadFull(br, buf); chk.E(err) {
			return
		}
		rec := &record.T{}
		if _, err = rec.UnmarshalBinary(buf); err != nil {
			return fmt.Errorf("record %d: %w", count, err)
		}
		if !rec.CheckId() {
			fmt.Fprintf(os.Stderr, "record %d: id does not verify\n", count)
		}
		var j []byte
		if j, err = json.Marshal(rec.ToRecordJ()); chk.E(err) {
			return
		}
		fmt.Printf("%s\n", j)
		count++
	}
}
