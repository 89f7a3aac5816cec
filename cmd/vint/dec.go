package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"varly.lol/chk"
	"varly.lol/errorf"
	"varly.lol/hex"
	"varly.lol/varint"
)

// Dec walks a stream of concatenated varints and prints one line per value:
// the byte offset it starts at, the bytes it occupies, and the value. The
// stream comes from the positional hex parameters, or raw from stdin so a
// file or a pipe can be inspected directly.
func Dec(cmd *decCmd) (err error) {
	var stream []byte
	if len(cmd.Hex) > 0 {
		for _, h := range cmd.Hex {
			var b []byte
			if b, err = hex.Dec(strings.TrimSpace(h)); chk.E(err) {
				return
			}
			stream = append(stream, b...)
		}
	} else {
		if stream, err = io.ReadAll(os.Stdin); chk.E(err) {
			return
		}
	}
	var offset int
	for offset < len(stream) {
		var v uint64
		var n int
		if v, n, err = varint.Decode(stream[offset:]); err != nil {
			// n is how far the scan reached, so the report points at the
			// corrupt byte rather than the start of the value
			return errorf.E("byte %d: %s", offset+n, err)
		}
		fmt.Printf("%8d  %-20s %d\n",
			offset, hex.Enc(stream[offset:offset+n]), v)
		offset += n
	}
	return
}
