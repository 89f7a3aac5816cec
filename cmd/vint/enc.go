package main

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"varly.lol/chk"
	"varly.lol/hex"
)

// Enc prints the hex varint stream encoding the given values, in order. The
// counterpart of Dec, handy for building test fixtures and probing servers
// with hand made frames.
func Enc(cmd *encCmd) (err error) {
	var stream []byte
	for _, s := range cmd.Values {
		var v uint64
		if v, err = strconv.ParseUint(s, 0, 64); chk.E(err) {
			return
		}
		stream = binary.AppendUvarint(stream, v)
	}
	fmt.Println(hex.Enc(stream))
	return
}
